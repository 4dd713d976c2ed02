package driven

import (
	"context"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// SyncStateStore persists the record-id→fingerprint mapping that makes
// passes idempotent. It must survive process restarts.
type SyncStateStore interface {
	// Load returns all entries keyed by record ID. Called once at pass
	// start.
	Load(ctx context.Context) (map[string]domain.SyncEntry, error)

	// Put stores or updates one entry. Called after each successful
	// record write so a crash loses at most the in-flight record.
	Put(ctx context.Context, entry domain.SyncEntry) error

	// Delete removes one entry.
	Delete(ctx context.Context, recordID string) error
}
