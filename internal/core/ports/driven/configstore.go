package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dot notation (e.g. "airtable.api_key").
type ConfigStore interface {
	// Get retrieves a value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 when absent.
	GetInt(key string) int

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Load re-reads configuration from the backing store.
	Load() error

	// Path returns the backing file path, for operator messages.
	Path() string
}
