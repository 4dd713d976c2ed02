package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync passes",
	RunE:  runHistoryCmd,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of passes to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run store not configured")
	}

	runs, err := runStore.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		cmd.Println("No sync passes recorded yet.")
		return nil
	}

	cmd.Printf("%-20s  %-9s  %7s  %7s  %7s  %6s\n",
		"STARTED", "DURATION", "CREATED", "UPDATED", "SKIPPED", "FAILED")
	for _, r := range runs {
		cmd.Printf("%-20s  %-9s  %7d  %7d  %7d  %6d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.EndedAt.Sub(r.StartedAt).Round(time.Second),
			r.Created, r.Updated, r.Skipped, r.Failed)
		if r.Error != "" {
			cmd.Printf("    error: %s\n", r.Error)
		}
	}
	return nil
}
