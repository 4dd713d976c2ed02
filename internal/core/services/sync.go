package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driving"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

// runHistoryKeep is how many pass results the run store retains.
const runHistoryKeep = 100

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncRunner = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives one full pass: fetch source records, decide
// per record whether to create, update or skip the mirrored page, write
// the changed ones and persist sync state.
type SyncOrchestrator struct {
	cfg       domain.Config
	source    driven.SourceClient
	resolver  *TitleResolver
	dest      driven.DestinationClient
	syncStore driven.SyncStateStore
	runStore  driven.RunStore
	dryRun    bool

	mu      sync.Mutex
	running bool
}

// Option configures the orchestrator.
type Option func(*SyncOrchestrator)

// WithDryRun makes passes decide and map but never write to the
// destination or the state store.
func WithDryRun() Option {
	return func(o *SyncOrchestrator) {
		o.dryRun = true
	}
}

// NewSyncOrchestrator creates a sync orchestrator. The runStore is
// optional; passing nil disables run history.
func NewSyncOrchestrator(
	cfg domain.Config,
	source driven.SourceClient,
	dest driven.DestinationClient,
	syncStore driven.SyncStateStore,
	runStore driven.RunStore,
	opts ...Option,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		cfg:       cfg,
		source:    source,
		resolver:  NewTitleResolver(dest),
		dest:      dest,
		syncStore: syncStore,
		runStore:  runStore,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunPass runs one synchronisation pass and returns the records
// actually written. Configuration problems and collection-level fetch
// failures abort the pass; a single record's failure is logged, leaves
// that record's fingerprint untouched (so it retries next pass) and
// processing continues.
func (o *SyncOrchestrator) RunPass(ctx context.Context) ([]domain.SyncedRecord, error) {
	if !o.tryStart() {
		return nil, domain.ErrSyncInProgress
	}
	defer o.finish()

	// Fail fast before any network call.
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	run := domain.PassRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	synced, err := o.runPass(ctx, &run)

	run.EndedAt = time.Now().UTC()
	if err != nil {
		run.Error = err.Error()
	}
	o.recordRun(ctx, run)

	return synced, err
}

// runPass is the pass body; run counters are updated in place.
func (o *SyncOrchestrator) runPass(ctx context.Context, run *domain.PassRun) ([]domain.SyncedRecord, error) {
	logger.Info("Starting sync pass %s", run.ID)

	records, err := o.source.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}
	logger.Info("Fetched %d source records", len(records))

	index, err := o.resolver.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := o.syncStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}

	// Decide everything up front so the quote table is fetched once per
	// pass, covering exactly the records that will be written.
	type pendingWrite struct {
		rec         domain.SourceRecord
		fingerprint string
	}
	var pending []pendingWrite
	var quoteIDs []string
	seenQuote := make(map[string]bool)

	for _, rec := range records {
		var known *domain.SyncEntry
		if e, ok := entries[rec.ID]; ok {
			known = &e
		}
		fp, changed := DetectChange(rec, known)
		if !changed {
			run.Skipped++
			logger.Debug("Skipping %s: unchanged", rec.ID)
			continue
		}
		pending = append(pending, pendingWrite{rec: rec, fingerprint: fp})
		for _, id := range rec.Links(FieldQuotes) {
			if !seenQuote[id] {
				seenQuote[id] = true
				quoteIDs = append(quoteIDs, id)
			}
		}
	}

	quotes := make(map[string]string)
	if len(quoteIDs) > 0 {
		quotes, err = o.source.LookupQuotes(ctx, quoteIDs)
		if err != nil {
			// Proceeding without quotes would stamp fingerprints for
			// pages missing their quote sections, hiding the loss until
			// the next upstream edit. Abort instead.
			return nil, fmt.Errorf("lookup quotes: %w", err)
		}
	}

	var synced []domain.SyncedRecord
	for _, p := range pending {
		mapped := MapRecord(p.rec)
		blocks := BuildBlocks(mapped, quotes)

		result, err := o.writeRecord(ctx, index, mapped, blocks)
		if err != nil {
			run.Failed++
			logger.Error("Failed to sync %q: %v", mapped.Title, err)
			continue
		}
		result.RecordID = p.rec.ID

		if !o.dryRun {
			entry := domain.SyncEntry{
				RecordID:    p.rec.ID,
				Fingerprint: p.fingerprint,
				SyncedAt:    time.Now().UTC(),
			}
			if err := o.syncStore.Put(ctx, entry); err != nil {
				// The page was written; losing the fingerprint only
				// means an extra write next pass.
				logger.Warn("Failed to persist state for %q: %v", mapped.Title, err)
			}
		}

		if result.Action == domain.ActionCreated {
			run.Created++
		} else {
			run.Updated++
		}
		logger.Info("%s: %s", result.Action, mapped.Title)
		synced = append(synced, result)
	}

	logger.Info("Pass %s complete: %d created, %d updated, %d skipped, %d failed",
		run.ID, run.Created, run.Updated, run.Skipped, run.Failed)
	return synced, nil
}

// writeRecord issues the destination calls for one record. Properties
// and content go through separate endpoints on the update path; the
// create endpoint accepts both at once.
func (o *SyncOrchestrator) writeRecord(
	ctx context.Context,
	index TitleIndex,
	mapped MappedPage,
	blocks []domain.Block,
) (domain.SyncedRecord, error) {
	if pageID, ok := index.Resolve(mapped.Title); ok {
		if o.dryRun {
			logger.Info("[dry-run] would update %q", mapped.Title)
			return domain.SyncedRecord{Title: mapped.Title, PageID: pageID, Action: domain.ActionUpdated}, nil
		}
		if err := o.dest.UpdateProperties(ctx, pageID, mapped.Properties); err != nil {
			return domain.SyncedRecord{}, fmt.Errorf("update properties: %w", err)
		}
		if err := o.dest.ReplaceContent(ctx, pageID, blocks); err != nil {
			return domain.SyncedRecord{}, fmt.Errorf("replace content: %w", err)
		}
		return domain.SyncedRecord{Title: mapped.Title, PageID: pageID, Action: domain.ActionUpdated}, nil
	}

	if o.dryRun {
		logger.Info("[dry-run] would create %q", mapped.Title)
		// Register the title so a later record sharing it previews as an
		// update, the same as in a real pass.
		index[mapped.Title] = ""
		return domain.SyncedRecord{Title: mapped.Title, Action: domain.ActionCreated}, nil
	}

	pageID, err := o.dest.CreatePage(ctx, mapped.Properties, blocks)
	if err != nil {
		return domain.SyncedRecord{}, fmt.Errorf("create page: %w", err)
	}
	// Later records sharing this title update the new page instead of
	// creating another duplicate.
	index[mapped.Title] = pageID

	return domain.SyncedRecord{Title: mapped.Title, PageID: pageID, Action: domain.ActionCreated}, nil
}

// recordRun stores the pass outcome and prunes old history.
// Best effort: history failures never fail a pass.
func (o *SyncOrchestrator) recordRun(ctx context.Context, run domain.PassRun) {
	if o.runStore == nil || o.dryRun {
		return
	}
	if err := o.runStore.RecordRun(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
		return
	}
	if err := o.runStore.PruneRuns(ctx, runHistoryKeep); err != nil {
		logger.Warn("Failed to prune run history: %v", err)
	}
}

// tryStart marks the orchestrator busy. The design assumes at most one
// pass at a time; the persisted state store has no external locking, so
// overlapping passes would race on it.
func (o *SyncOrchestrator) tryStart() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return false
	}
	o.running = true
	return true
}

func (o *SyncOrchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
}
