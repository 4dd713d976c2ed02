package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// rewriteTransport redirects every request to the test server so the
// SDK's fixed API host can be exercised against httptest.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func testNotionClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	cfg := domain.Config{
		NotionAPIKey:     "secret",
		NotionDatabaseID: "db123",
	}
	return NewClient(cfg, WithHTTPClient(&http.Client{
		Transport: rewriteTransport{target: target},
	}))
}

// queryRequest is the slice of the query body the handlers care about.
type queryRequest struct {
	StartCursor string `json:"start_cursor"`
}

func titledPage(id, title string) map[string]any {
	return map[string]any{
		"object": "page",
		"id":     id,
		"properties": map[string]any{
			"Name": map[string]any{
				"id":   "title",
				"type": "title",
				"title": []map[string]any{
					{
						"type":       "text",
						"text":       map[string]any{"content": title},
						"plain_text": title,
					},
				},
			},
		},
	}
}

func TestListPagesFollowsCursors(t *testing.T) {
	var requests int
	client := testNotionClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/v1/databases/db123/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch req.StartCursor {
		case "":
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"results": []map[string]any{
					titledPage("page-1", "Jane Doe"),
					titledPage("page-2", "Amir"),
				},
				"has_more":    true,
				"next_cursor": "cursor2",
			}))
		case "cursor2":
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"results": []map[string]any{
					titledPage("page-3", "Priya"),
				},
				"has_more":    false,
				"next_cursor": nil,
			}))
		default:
			t.Errorf("unexpected cursor %q", req.StartCursor)
		}
	})

	pages, err := client.ListPages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, map[string]string{
		"Jane Doe": "page-1",
		"Amir":     "page-2",
		"Priya":    "page-3",
	}, pages)
}

func TestFindPageNotFound(t *testing.T) {
	client := testNotionClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","results":[],"has_more":false,"next_cursor":null}`)
	})

	_, err := client.FindPage(context.Background(), "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindPageReturnsID(t *testing.T) {
	client := testNotionClient(t, func(w http.ResponseWriter, _ *http.Request) {
		body, err := json.Marshal(map[string]any{
			"object":      "list",
			"results":     []map[string]any{titledPage("page-7", "Jane Doe")},
			"has_more":    false,
			"next_cursor": nil,
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	id, err := client.FindPage(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "page-7", id)
}
