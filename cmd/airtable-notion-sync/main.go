// Command airtable-notion-sync mirrors records from an Airtable base
// into a Notion database.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/airtable"
	configfile "github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/config/file"
	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/notion"
	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/storage/sqlite"
	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driving/cli"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driving"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/services"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	cfg := buildConfig(configStore)

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer store.Close()

	source := airtable.NewClient(cfg)
	dest := notion.NewClient(cfg)
	syncStore := store.SyncStateStore()
	runStore := store.RunStore()

	newRunner := func(dryRun bool) driving.SyncRunner {
		var opts []services.Option
		if dryRun {
			opts = append(opts, services.WithDryRun())
		}
		return services.NewSyncOrchestrator(cfg, source, dest, syncStore, runStore, opts...)
	}

	scheduler := services.NewScheduler(cfg.SyncInterval, newRunner(false))

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		ConfigStore: configStore,
		RunStore:    runStore,
		Scheduler:   scheduler,
		NewRunner:   newRunner,
	})

	return cli.Execute()
}

// buildConfig assembles the runtime configuration: config file values
// first, environment variables on top. Environment wins so deployments
// can override the file without editing it.
func buildConfig(store driven.ConfigStore) domain.Config {
	cfg := domain.Config{
		AirtableAPIKey:   store.GetString("airtable.api_key"),
		AirtableBaseID:   store.GetString("airtable.base_id"),
		RecordsTable:     store.GetString("airtable.records_table"),
		QuotesTable:      store.GetString("airtable.quotes_table"),
		NotionAPIKey:     store.GetString("notion.api_key"),
		NotionDatabaseID: store.GetString("notion.database_id"),
		DataDir:          store.GetString("storage.data_dir"),
	}

	if raw := store.GetString("sync.interval"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SyncInterval = d
		} else {
			logger.Warn("Ignoring invalid sync.interval %q: %v", raw, err)
		}
	}

	overlayEnv(&cfg.AirtableAPIKey, "AIRTABLE_API_KEY")
	overlayEnv(&cfg.AirtableBaseID, "AIRTABLE_BASE_ID")
	overlayEnv(&cfg.RecordsTable, "AIRTABLE_RECORDS_TABLE")
	overlayEnv(&cfg.QuotesTable, "AIRTABLE_QUOTES_TABLE")
	overlayEnv(&cfg.NotionAPIKey, "NOTION_API_KEY")
	overlayEnv(&cfg.NotionDatabaseID, "NOTION_DATABASE_ID")

	cfg.ApplyDefaults()
	return cfg
}

// overlayEnv replaces dst with the environment value when set.
func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
