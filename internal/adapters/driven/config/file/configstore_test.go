package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("airtable.api_key", "secret"))
	require.NoError(t, store.Set("sync.interval", "12h"))

	assert.Equal(t, "secret", store.GetString("airtable.api_key"))
	assert.Equal(t, "12h", store.GetString("sync.interval"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("notion.database_id", "db123"))
	require.NoError(t, store.Set("history.keep", int64(50)))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "db123", reopened.GetString("notion.database_id"))
	assert.Equal(t, 50, reopened.GetInt("history.keep"))
}

func TestFilePermissionsRestricted(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("airtable.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[airtable]\napi_key = \"secret\"\nbase_id = \"appX\"\n\n[sync]\ninterval = \"6h\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "secret", store.GetString("airtable.api_key"))
	assert.Equal(t, "appX", store.GetString("airtable.base_id"))
	assert.Equal(t, "6h", store.GetString("sync.interval"))
}

func TestSaveKeepsSectionStructure(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("airtable.api_key", "secret"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[airtable]")
}

func TestMissingFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("anything"))
}

func TestGetStringWrongTypeReturnsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("history.keep", int64(50)))

	assert.Equal(t, "", store.GetString("history.keep"))
	assert.Equal(t, 50, store.GetInt("history.keep"))
	assert.Equal(t, 0, store.GetInt("missing"))
}
