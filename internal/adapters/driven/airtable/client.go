// Package airtable implements the source client against the Airtable
// REST API.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

const (
	// DefaultBaseURL is the Airtable REST API root.
	DefaultBaseURL = "https://api.airtable.com/v0"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// pageSize is the records-per-page maximum Airtable allows.
	pageSize = 100

	// requestsPerSecond stays at Airtable's documented 5 req/s cap.
	requestsPerSecond = 5
)

// Ensure Client implements the interface.
var _ driven.SourceClient = (*Client)(nil)

// Client reads records from one Airtable base over HTTP.
type Client struct {
	http         *http.Client
	baseURL      string
	apiKey       string
	baseID       string
	recordsTable string
	quotesTable  string
	limiter      *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates an Airtable client from configuration.
func NewClient(cfg domain.Config, opts ...ClientOption) *Client {
	c := &Client{
		http:         &http.Client{Timeout: DefaultTimeout},
		baseURL:      DefaultBaseURL,
		apiKey:       cfg.AirtableAPIKey,
		baseID:       cfg.AirtableBaseID,
		recordsTable: cfg.RecordsTable,
		quotesTable:  cfg.QuotesTable,
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiRecord is the wire shape of one Airtable record.
type apiRecord struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// apiPage is one page of a table listing. A non-empty offset means more
// pages follow.
type apiPage struct {
	Records []apiRecord `json:"records"`
	Offset  string      `json:"offset"`
}

// ListRecords returns every record in the records table, following
// pagination offsets until the listing is exhausted.
func (c *Client) ListRecords(ctx context.Context) ([]domain.SourceRecord, error) {
	raw, err := c.listTable(ctx, c.recordsTable)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SourceRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, decodeRecord(r))
	}
	return records, nil
}

// quoteTextField holds the quote body in the quotes table; the primary
// field is the fallback for older rows.
const (
	quoteTextField    = "Quote"
	quotePrimaryField = "Name"
)

// LookupQuotes resolves quote record IDs to their text. The quotes
// table is listed once and filtered locally; IDs with no match (or no
// text) are absent from the result.
func (c *Client) LookupQuotes(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	raw, err := c.listTable(ctx, c.quotesTable)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	quotes := make(map[string]string)
	for _, r := range raw {
		if !wanted[r.ID] {
			continue
		}
		rec := decodeRecord(r)
		text := rec.Text(quoteTextField)
		if text == "" {
			text = rec.Text(quotePrimaryField)
		}
		if text != "" {
			quotes[r.ID] = text
		}
	}
	return quotes, nil
}

// listTable fetches all pages of one table.
func (c *Client) listTable(ctx context.Context, table string) ([]apiRecord, error) {
	var all []apiRecord
	offset := ""

	for {
		page, err := c.fetchPage(ctx, table, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)

		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// fetchPage fetches one page of a table listing.
func (c *Client) fetchPage(ctx context.Context, table, offset string) (*apiPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	if offset != "" {
		q.Set("offset", offset)
	}
	u := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger.Debug("GET %s/%s (offset=%q)", c.baseID, table, offset)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("fetch %s: %w", table, domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", table, resp.StatusCode, body)
	}

	var page apiPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s page: %w", table, err)
	}
	return &page, nil
}

// lastModifiedField, when present, overrides the record creation time
// as the modification marker.
const lastModifiedField = "Last Modified"

// decodeRecord converts a wire record into the domain snapshot.
func decodeRecord(r apiRecord) domain.SourceRecord {
	rec := domain.SourceRecord{
		ID:             r.ID,
		Fields:         decodeFields(r.Fields),
		ModifiedMarker: r.CreatedTime,
	}
	if m := rec.Text(lastModifiedField); m != "" {
		rec.ModifiedMarker = m
	}
	return rec
}
