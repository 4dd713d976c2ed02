// Package sqlite provides durable storage for sync state and run
// history on a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
)

// Store is a SQLite-backed storage providing the sync state and run
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under the given data directory.
// If dataDir is empty, defaults to ~/.airtable-notion-sync/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".airtable-notion-sync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "state.db")

	// WAL mode keeps readers and the writer from blocking each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SyncStateStore returns a SyncStateStore backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// RunStore returns a RunStore backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Load returns all entries keyed by record ID.
func (s *syncStateStore) Load(ctx context.Context) (map[string]domain.SyncEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT record_id, fingerprint, synced_at FROM sync_entries
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sync entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.SyncEntry)
	for rows.Next() {
		var e domain.SyncEntry
		if err := rows.Scan(&e.RecordID, &e.Fingerprint, &e.SyncedAt); err != nil {
			return nil, fmt.Errorf("scanning sync entry: %w", err)
		}
		entries[e.RecordID] = e
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync entries: %w", err)
	}

	return entries, nil
}

// Put stores or updates one entry.
func (s *syncStateStore) Put(ctx context.Context, entry domain.SyncEntry) error {
	if entry.RecordID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_entries (record_id, fingerprint, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(record_id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			synced_at = excluded.synced_at
	`, entry.RecordID, entry.Fingerprint, entry.SyncedAt)

	if err != nil {
		return fmt.Errorf("saving sync entry: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (s *syncStateStore) Delete(ctx context.Context, recordID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_entries WHERE record_id = ?", recordID)
	if err != nil {
		return fmt.Errorf("deleting sync entry: %w", err)
	}
	return nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// RecordRun stores one completed pass.
func (s *runStore) RecordRun(ctx context.Context, run domain.PassRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, ended_at, created, updated, skipped, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.EndedAt, run.Created, run.Updated, run.Skipped, run.Failed, run.Error)

	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.PassRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, created, updated, skipped, failed, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PassRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.PassRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.EndedAt,
			&r.Created, &r.Updated, &r.Skipped, &r.Failed, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// PruneRuns deletes all but the most recent keep runs.
func (s *runStore) PruneRuns(ctx context.Context, keep int) error {
	if keep <= 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sync_runs WHERE id NOT IN (
			SELECT id FROM sync_runs ORDER BY started_at DESC LIMIT ?
		)
	`, keep)

	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}
