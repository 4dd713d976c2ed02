package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single sync pass",
	Long: `Runs one sync pass: fetches all source records, skips unchanged ones,
and creates or updates the matching Notion pages for the rest.`,
	RunE: runSyncCmd,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report what would change without writing")
	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	if newRunner == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()
	runner := newRunner(syncDryRun)

	if syncDryRun {
		cmd.Println("Starting sync pass (dry run)...")
	} else {
		cmd.Println("Starting sync pass...")
	}

	synced, err := runner.RunPass(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	for _, rec := range synced {
		cmd.Printf("  %-7s  %s\n", actionLabel(rec.Action), rec.Title)
	}
	cmd.Printf("Sync complete: %d record(s) written.\n", len(synced))

	return nil
}

func actionLabel(a domain.WriteAction) string {
	switch a {
	case domain.ActionCreated:
		return "created"
	case domain.ActionUpdated:
		return "updated"
	default:
		return string(a)
	}
}
