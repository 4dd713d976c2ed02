// Package notion implements the destination client against the Notion
// API via the jomei/notionapi SDK.
package notion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

const (
	// pageSize is the Notion listing page size cap.
	pageSize = 100

	// appendBatchSize is the per-call cap on appended children.
	appendBatchSize = 100

	// requestsPerSecond stays at Notion's documented average of
	// 3 requests per second per integration.
	requestsPerSecond = 3
)

// Ensure Client implements the interface.
var _ driven.DestinationClient = (*Client)(nil)

// Client writes pages into one Notion database.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	apiOptions []notionapi.ClientOption
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(cc *clientConfig) {
		cc.apiOptions = append(cc.apiOptions, notionapi.WithHTTPClient(h))
	}
}

// NewClient creates a Notion client from configuration.
func NewClient(cfg domain.Config, opts ...ClientOption) *Client {
	var cc clientConfig
	for _, opt := range opts {
		opt(&cc)
	}
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(cfg.NotionAPIKey), cc.apiOptions...),
		databaseID: notionapi.DatabaseID(cfg.NotionDatabaseID),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// ListPages builds the title→page-id table for the whole database,
// following cursors until the listing is exhausted. Duplicate titles
// collapse to the last page listed.
func (c *Client) ListPages(ctx context.Context) (map[string]string, error) {
	pages := make(map[string]string)
	var cursor notionapi.Cursor

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}

		for i := range resp.Results {
			page := &resp.Results[i]
			if title := pageTitle(page); title != "" {
				pages[title] = string(page.ID)
			}
		}

		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// FindPage looks up a single page by exact title.
func (c *Client) FindPage(ctx context.Context, title string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: titlePropertyName,
			RichText: &notionapi.TextFilterCondition{Equals: title},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", fmt.Errorf("query database: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", domain.ErrNotFound
	}
	return string(resp.Results[0].ID), nil
}

// CreatePage creates a page with its properties and content in one call.
func (c *Client) CreatePage(ctx context.Context, props domain.Properties, blocks []domain.Block) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: toNotionProperties(props),
		Children:   toNotionBlocks(blocks),
	})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	return string(page.ID), nil
}

// UpdateProperties replaces a page's properties.
func (c *Client) UpdateProperties(ctx context.Context, pageID string, props domain.Properties) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: toNotionProperties(props),
	})
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

// ReplaceContent swaps a page's content blocks: existing children are
// deleted one by one, then the new blocks are appended in batches. The
// window between delete and append is the design's accepted non-atomic
// gap; a failure there leaves the page with empty content until the
// record's next write.
func (c *Client) ReplaceContent(ctx context.Context, pageID string, blocks []domain.Block) error {
	existing, err := c.listChildren(ctx, pageID)
	if err != nil {
		return err
	}

	for _, id := range existing {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		if _, err := c.api.Block.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete block: %w", err)
		}
	}
	logger.Debug("Deleted %d existing blocks from %s", len(existing), pageID)

	children := toNotionBlocks(blocks)
	for start := 0; start < len(children); start += appendBatchSize {
		end := start + appendBatchSize
		if end > len(children) {
			end = len(children)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		_, err := c.api.Block.AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{
			Children: children[start:end],
		})
		if err != nil {
			return fmt.Errorf("append blocks: %w", err)
		}
	}
	return nil
}

// listChildren returns the IDs of all existing top-level blocks.
func (c *Client) listChildren(ctx context.Context, pageID string) ([]notionapi.BlockID, error) {
	var ids []notionapi.BlockID
	var cursor notionapi.Cursor

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("list blocks: %w", err)
		}

		for _, block := range resp.Results {
			ids = append(ids, block.GetID())
		}

		if !resp.HasMore {
			return ids, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// pageTitle extracts the plain-text title of a page.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		tp, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		title := ""
		for _, rt := range tp.Title {
			title += rt.PlainText
		}
		return title
	}
	return ""
}
