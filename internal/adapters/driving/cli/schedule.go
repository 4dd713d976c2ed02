package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

var scheduleInterval time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run sync passes on a fixed interval",
	Long: `Runs a pass immediately, then one per interval, until interrupted.
Edits to the config file take effect without a restart: the interval is
re-read whenever the file changes.`,
	RunE: runScheduleCmd,
}

func init() {
	scheduleCmd.Flags().DurationVar(&scheduleInterval, "interval", 0,
		"time between passes (overrides sync.interval from config)")
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	if scheduleInterval > 0 {
		scheduler.SetInterval(scheduleInterval)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if configStore != nil {
		stopWatch, err := watchConfig(configStore.Path())
		if err != nil {
			logger.Warn("Config watch unavailable: %v", err)
		} else {
			defer stopWatch()
		}
	}

	cmd.Printf("Scheduling sync every %s. Press Ctrl+C to stop.\n", scheduler.Interval())

	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	cmd.Println("Scheduler stopped.")
	return nil
}

// watchConfig reloads the config store when its file changes and pushes
// the new interval to the scheduler. Watches the directory rather than
// the file because editors replace files on save.
func watchConfig(path string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := configStore.Load(); err != nil {
					logger.Warn("Config reload failed: %v", err)
					continue
				}
				if raw := configStore.GetString("sync.interval"); raw != "" {
					if d, err := time.ParseDuration(raw); err == nil {
						scheduler.SetInterval(d)
					} else {
						logger.Warn("Ignoring invalid sync.interval %q: %v", raw, err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watch error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
