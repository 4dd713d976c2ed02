// Package cli wires the cobra command tree. Commands talk to the core
// through package-level services injected once at startup.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driving"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/services"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

// version is stamped by the build; overridden via SetVersion.
var version = "dev"

// Services carries everything the commands need.
type Services struct {
	ConfigStore driven.ConfigStore
	RunStore    driven.RunStore
	Scheduler   *services.Scheduler

	// NewRunner builds a sync runner, optionally in dry-run mode.
	NewRunner func(dryRun bool) driving.SyncRunner
}

var (
	configStore driven.ConfigStore
	runStore    driven.RunStore
	scheduler   *services.Scheduler
	newRunner   func(dryRun bool) driving.SyncRunner

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "airtable-notion-sync",
	Short: "One-way sync from an Airtable base into a Notion database",
	Long: `airtable-notion-sync mirrors records from an Airtable base into a
Notion database. Each pass fetches every source record, skips the ones
that have not changed since the last pass, and creates or updates the
matching Notion page for the rest.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the wired services before Execute.
func SetServices(s Services) {
	configStore = s.ConfigStore
	runStore = s.RunStore
	scheduler = s.Scheduler
	newRunner = s.NewRunner
}

// SetVersion overrides the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
