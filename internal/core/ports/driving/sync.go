package driving

import (
	"context"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// SyncRunner drives one full synchronisation pass.
type SyncRunner interface {
	// RunPass fetches all source records, decides create/update/skip per
	// record, writes changed records to the destination and persists
	// sync state. It returns the records actually written. A single
	// record's failure never aborts the pass; configuration errors and
	// source/destination listing failures do.
	RunPass(ctx context.Context) ([]domain.SyncedRecord, error)
}
