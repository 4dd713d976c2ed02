package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default table names, matching the Airtable base this tool grew up
// against. Overridable via configuration.
const (
	DefaultRecordsTable = "Media"
	DefaultQuotesTable  = "Quotes"
)

// DefaultSyncInterval is how often the schedule daemon runs a pass.
const DefaultSyncInterval = 24 * time.Hour

// Config carries everything the orchestrator and its collaborators need.
// It is assembled once at startup (config file overlaid by environment)
// and passed in explicitly; nothing reads process environment later.
type Config struct {
	// AirtableAPIKey authenticates against the Airtable API.
	AirtableAPIKey string

	// AirtableBaseID is the base containing the records table.
	AirtableBaseID string

	// RecordsTable is the table records are read from.
	RecordsTable string

	// QuotesTable is the table quote foreign keys resolve against.
	QuotesTable string

	// NotionAPIKey authenticates against the Notion API.
	NotionAPIKey string

	// NotionDatabaseID is the database pages are mirrored into.
	NotionDatabaseID string

	// SyncInterval is the schedule daemon's pass interval.
	SyncInterval time.Duration

	// DataDir holds the SQLite state database. Empty means the default
	// under the user's home directory.
	DataDir string
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.RecordsTable == "" {
		c.RecordsTable = DefaultRecordsTable
	}
	if c.QuotesTable == "" {
		c.QuotesTable = DefaultQuotesTable
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
}

// Validate checks that required credentials and identifiers are present.
// The returned error wraps ErrConfiguration and names every missing key
// so the operator can fix them all at once.
func (c *Config) Validate() error {
	var missing []string
	if c.AirtableAPIKey == "" {
		missing = append(missing, "airtable.api_key")
	}
	if c.AirtableBaseID == "" {
		missing = append(missing, "airtable.base_id")
	}
	if c.NotionAPIKey == "" {
		missing = append(missing, "notion.api_key")
	}
	if c.NotionDatabaseID == "" {
		missing = append(missing, "notion.database_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
