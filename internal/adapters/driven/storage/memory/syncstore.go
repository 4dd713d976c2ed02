// Package memory provides in-memory storage backends for tests.
package memory

import (
	"context"
	"sync"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore keeps sync entries in a map.
type SyncStateStore struct {
	mu      sync.RWMutex
	entries map[string]domain.SyncEntry
}

// NewSyncStateStore creates an empty in-memory state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		entries: make(map[string]domain.SyncEntry),
	}
}

// Load returns a copy of all entries keyed by record ID.
func (s *SyncStateStore) Load(_ context.Context) (map[string]domain.SyncEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.SyncEntry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out, nil
}

// Put stores or updates one entry.
func (s *SyncStateStore) Put(_ context.Context, entry domain.SyncEntry) error {
	if entry.RecordID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.RecordID] = entry
	return nil
}

// Delete removes one entry.
func (s *SyncStateStore) Delete(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, recordID)
	return nil
}
