package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore keeps pass history in a slice.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.PassRun
}

// NewRunStore creates an empty in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// RecordRun stores one completed pass.
func (s *RunStore) RecordRun(_ context.Context, run domain.PassRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.PassRun, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PassRun, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PruneRuns deletes all but the most recent keep runs.
func (s *RunStore) PruneRuns(_ context.Context, keep int) error {
	if keep <= 0 {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.runs) <= keep {
		return nil
	}

	sort.Slice(s.runs, func(i, j int) bool {
		return s.runs[i].StartedAt.After(s.runs[j].StartedAt)
	})
	s.runs = s.runs[:keep]
	return nil
}
