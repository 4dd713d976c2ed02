package driven

import (
	"context"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// SourceClient reads records from the tabular source.
// Implementations paginate transparently: callers always see the full
// collection.
type SourceClient interface {
	// ListRecords returns every record in the configured table.
	ListRecords(ctx context.Context) ([]domain.SourceRecord, error)

	// LookupQuotes resolves quote foreign keys to quote text.
	// IDs with no match are absent from the returned map, not errors.
	LookupQuotes(ctx context.Context, ids []string) (map[string]string, error)
}
