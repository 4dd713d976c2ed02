package driven

import (
	"context"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// DestinationClient writes pages into the document workspace.
type DestinationClient interface {
	// ListPages returns a title→page-id table for the whole collection,
	// paginating transparently. Duplicate titles collapse to a single
	// entry (last listed wins).
	ListPages(ctx context.Context) (map[string]string, error)

	// FindPage looks up a single page by exact title. Returns
	// domain.ErrNotFound when no page matches.
	FindPage(ctx context.Context, title string) (string, error)

	// CreatePage creates a page with properties and content blocks in
	// one call and returns the new page's id.
	CreatePage(ctx context.Context, props domain.Properties, blocks []domain.Block) (string, error)

	// UpdateProperties replaces the page's properties.
	UpdateProperties(ctx context.Context, pageID string, props domain.Properties) error

	// ReplaceContent swaps the page's content blocks. Semantics are
	// delete-then-append: a failure between the two can leave the page
	// with updated properties but empty content. Accepted limitation of
	// the at-least-once design.
	ReplaceContent(ctx context.Context, pageID string, blocks []domain.Block) error
}
