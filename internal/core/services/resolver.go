package services

import (
	"context"
	"fmt"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
)

// TitleIndex is an in-memory title→page-id table for one pass.
// Duplicate titles in the destination collapse to whichever page the
// listing returned last; the source permits duplicate display names, so
// which duplicate wins is deliberately unspecified upstream.
type TitleIndex map[string]string

// Resolve returns the page id for a title, if one exists.
func (ix TitleIndex) Resolve(title string) (string, bool) {
	id, ok := ix[title]
	return id, ok
}

// TitleResolver finds existing destination pages by their title, the
// stable lookup key shared by both systems.
type TitleResolver struct {
	dest driven.DestinationClient
}

// NewTitleResolver creates a resolver over a destination client.
func NewTitleResolver(dest driven.DestinationClient) *TitleResolver {
	return &TitleResolver{dest: dest}
}

// BuildIndex bulk-prefetches all existing titles once. Cheaper than
// query-per-title when most records are unchanged; used by the
// full-catalog pass.
func (r *TitleResolver) BuildIndex(ctx context.Context) (TitleIndex, error) {
	pages, err := r.dest.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destination pages: %w", err)
	}
	return TitleIndex(pages), nil
}

// Find queries the destination for a single title. Cheaper for
// single-record flows. Returns domain.ErrNotFound when absent.
func (r *TitleResolver) Find(ctx context.Context, title string) (string, error) {
	return r.dest.FindPage(ctx, title)
}
