package driven

import (
	"context"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// RunStore records pass outcomes for the history command.
type RunStore interface {
	// RecordRun stores one completed pass.
	RecordRun(ctx context.Context, run domain.PassRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.PassRun, error)

	// PruneRuns deletes all but the most recent keep runs.
	PruneRuns(ctx context.Context, keep int) error
}
