package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/airtable-notion-sync/internal/adapters/driven/storage/memory"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSource implements driven.SourceClient with canned data.
type mockSource struct {
	records    []domain.SourceRecord
	recordsErr error
	quotes     map[string]string
	quotesErr  error

	lookupCalls int
	lookedUpIDs []string
}

var _ driven.SourceClient = (*mockSource)(nil)

func (m *mockSource) ListRecords(_ context.Context) ([]domain.SourceRecord, error) {
	return m.records, m.recordsErr
}

func (m *mockSource) LookupQuotes(_ context.Context, ids []string) (map[string]string, error) {
	m.lookupCalls++
	m.lookedUpIDs = append(m.lookedUpIDs, ids...)
	if m.quotesErr != nil {
		return nil, m.quotesErr
	}
	out := make(map[string]string)
	for _, id := range ids {
		if text, ok := m.quotes[id]; ok {
			out[id] = text
		}
	}
	return out, nil
}

// mockDest implements driven.DestinationClient and records every write.
type mockDest struct {
	pages    map[string]string // title -> page id
	listErr  error
	writeErr error

	created        []string // titles
	updated        []string // page ids
	replaced       []string // page ids
	createdBlocks  map[string][]domain.Block
	replacedBlocks map[string][]domain.Block
	nextPageID     int
}

var _ driven.DestinationClient = (*mockDest)(nil)

func (m *mockDest) ListPages(_ context.Context) (map[string]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make(map[string]string, len(m.pages))
	for t, id := range m.pages {
		out[t] = id
	}
	return out, nil
}

func (m *mockDest) FindPage(_ context.Context, title string) (string, error) {
	if id, ok := m.pages[title]; ok {
		return id, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockDest) CreatePage(_ context.Context, props domain.Properties, blocks []domain.Block) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.nextPageID++
	id := string(rune('a' + m.nextPageID - 1))
	title := props[PropName].Text
	m.created = append(m.created, title)
	if m.createdBlocks == nil {
		m.createdBlocks = make(map[string][]domain.Block)
	}
	m.createdBlocks[title] = blocks
	return "page-" + id, nil
}

func (m *mockDest) UpdateProperties(_ context.Context, pageID string, _ domain.Properties) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.updated = append(m.updated, pageID)
	return nil
}

func (m *mockDest) ReplaceContent(_ context.Context, pageID string, blocks []domain.Block) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.replaced = append(m.replaced, pageID)
	if m.replacedBlocks == nil {
		m.replacedBlocks = make(map[string][]domain.Block)
	}
	m.replacedBlocks[pageID] = blocks
	return nil
}

func (m *mockDest) writeCount() int {
	return len(m.created) + len(m.updated) + len(m.replaced)
}

// --- Helpers ---

func testConfig() domain.Config {
	cfg := domain.Config{
		AirtableAPIKey:   "key",
		AirtableBaseID:   "base",
		NotionAPIKey:     "secret",
		NotionDatabaseID: "db",
	}
	cfg.ApplyDefaults()
	return cfg
}

func nameRecord(id, name, marker string) domain.SourceRecord {
	return domain.SourceRecord{
		ID:             id,
		ModifiedMarker: marker,
		Fields: map[string]domain.FieldValue{
			FieldName: domain.TextValue(name),
		},
	}
}

// --- Tests ---

func TestRunPassCreatesNewRecord(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{nameRecord("rec1", "Jane Doe", "t1")},
	}
	dest := &mockDest{pages: map[string]string{}}
	syncStore := memory.NewSyncStateStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, domain.ActionCreated, synced[0].Action)
	assert.Equal(t, "Jane Doe", synced[0].Title)
	assert.Equal(t, []string{"Jane Doe"}, dest.created)

	entries, err := syncStore.Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, entries, "rec1")
	assert.Equal(t, "t1", entries["rec1"].Fingerprint)
}

func TestRunPassUpdatesExistingPage(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{nameRecord("rec1", "Jane Doe", "t2")},
	}
	dest := &mockDest{pages: map[string]string{"Jane Doe": "page-1"}}
	syncStore := memory.NewSyncStateStore()
	require.NoError(t, syncStore.Put(context.Background(), domain.SyncEntry{
		RecordID: "rec1", Fingerprint: "t1",
	}))

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, domain.ActionUpdated, synced[0].Action)
	assert.Equal(t, "page-1", synced[0].PageID)
	assert.Empty(t, dest.created)
	assert.Equal(t, []string{"page-1"}, dest.updated)
	assert.Equal(t, []string{"page-1"}, dest.replaced)
}

func TestRunPassSkipsUnchangedRecord(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{nameRecord("rec1", "Jane Doe", "t1")},
	}
	dest := &mockDest{pages: map[string]string{"Jane Doe": "page-1"}}
	syncStore := memory.NewSyncStateStore()
	require.NoError(t, syncStore.Put(context.Background(), domain.SyncEntry{
		RecordID: "rec1", Fingerprint: "t1",
	}))

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	assert.Empty(t, synced)
	assert.Zero(t, dest.writeCount())
	assert.Zero(t, source.lookupCalls)
}

func TestRunPassSecondPassIsEmpty(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{
			nameRecord("rec1", "Jane Doe", "t1"),
			nameRecord("rec2", "Amir", "t1"),
		},
	}
	dest := &mockDest{pages: map[string]string{}}
	syncStore := memory.NewSyncStateStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)

	first, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// The first pass created the pages; the listing reflects them.
	dest.pages = map[string]string{"Jane Doe": "page-a", "Amir": "page-b"}
	writesAfterFirst := dest.writeCount()

	second, err := orch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, writesAfterFirst, dest.writeCount())
}

func TestRunPassAttachmentRecordAlwaysWrites(t *testing.T) {
	rec := nameRecord("rec1", "Jane Doe", "t1")
	rec.Fields[FieldProfileImage] = domain.AttachmentValue(domain.Attachment{
		URL: "https://files.example/jane.jpg",
	})
	source := &mockSource{records: []domain.SourceRecord{rec}}
	dest := &mockDest{pages: map[string]string{"Jane Doe": "page-1"}}
	syncStore := memory.NewSyncStateStore()
	require.NoError(t, syncStore.Put(context.Background(), domain.SyncEntry{
		RecordID: "rec1", Fingerprint: "t1",
	}))

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, domain.ActionUpdated, synced[0].Action)
}

func TestRunPassResolvesQuotesOnce(t *testing.T) {
	rec1 := nameRecord("rec1", "Jane Doe", "t1")
	rec1.Fields[FieldQuotes] = domain.LinkValue("q1", "q2")
	rec2 := nameRecord("rec2", "Amir", "t1")
	rec2.Fields[FieldQuotes] = domain.LinkValue("q2")

	source := &mockSource{
		records: []domain.SourceRecord{rec1, rec2},
		quotes:  map[string]string{"q1": "First.", "q2": "Second."},
	}
	dest := &mockDest{pages: map[string]string{}}

	orch := NewSyncOrchestrator(testConfig(), source, dest, memory.NewSyncStateStore(), nil)
	_, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, source.lookupCalls)
	// q2 is shared; deduplicated before lookup.
	assert.ElementsMatch(t, []string{"q1", "q2"}, source.lookedUpIDs)

	blocks := dest.createdBlocks["Jane Doe"]
	require.NotEmpty(t, blocks)
	assert.Equal(t, domain.HeadingBlock("Quotes"), blocks[0])
	assert.Equal(t, domain.QuoteBlock("First."), blocks[1])
	assert.Equal(t, domain.QuoteBlock("Second."), blocks[2])
}

func TestRunPassQuoteLookupFailureAbortsPass(t *testing.T) {
	rec := nameRecord("rec1", "Jane Doe", "t1")
	rec.Fields[FieldQuotes] = domain.LinkValue("q1")
	source := &mockSource{
		records:   []domain.SourceRecord{rec},
		quotesErr: errors.New("boom"),
	}
	dest := &mockDest{pages: map[string]string{}}
	syncStore := memory.NewSyncStateStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, nil)
	_, err := orch.RunPass(context.Background())

	require.Error(t, err)
	assert.Zero(t, dest.writeCount())

	entries, err := syncStore.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunPassRecordFailureIsIsolated(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{
			nameRecord("rec1", "Jane Doe", "t1"),
			nameRecord("rec2", "Amir", "t1"),
		},
	}
	// Jane's page exists so she takes the update path, which fails; Amir
	// takes the create path, which succeeds.
	dest := &failFirstDest{
		mockDest: mockDest{pages: map[string]string{"Jane Doe": "page-1"}},
	}
	syncStore := memory.NewSyncStateStore()
	runStore := memory.NewRunStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, runStore)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "Amir", synced[0].Title)

	// Failed record keeps no fingerprint, so it retries next pass.
	entries, err := syncStore.Load(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, entries, "rec1")
	assert.Contains(t, entries, "rec2")

	runs, err := runStore.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Created)
	assert.Equal(t, 1, runs[0].Failed)
}

// failFirstDest fails every update but lets creates through.
type failFirstDest struct {
	mockDest
}

func (d *failFirstDest) UpdateProperties(_ context.Context, _ string, _ domain.Properties) error {
	return errors.New("update failed")
}

func TestRunPassDuplicateTitlesShareOnePage(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{
			nameRecord("rec1", "Jane Doe", "t1"),
			nameRecord("rec2", "Jane Doe", "t1"),
		},
	}
	dest := &mockDest{pages: map[string]string{}}

	orch := NewSyncOrchestrator(testConfig(), source, dest, memory.NewSyncStateStore(), nil)
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 2)
	// First record creates; the second hits the freshly indexed page.
	assert.Equal(t, []string{"Jane Doe"}, dest.created)
	assert.Len(t, dest.updated, 1)
}

func TestRunPassFailsFastOnMissingConfig(t *testing.T) {
	source := &mockSource{}
	dest := &mockDest{}

	orch := NewSyncOrchestrator(domain.Config{}, source, dest, memory.NewSyncStateStore(), nil)
	_, err := orch.RunPass(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, dest.writeCount())
}

func TestRunPassRejectsOverlap(t *testing.T) {
	orch := NewSyncOrchestrator(testConfig(), &mockSource{}, &mockDest{}, memory.NewSyncStateStore(), nil)
	require.True(t, orch.tryStart())
	defer orch.finish()

	_, err := orch.RunPass(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
}

func TestRunPassDryRunWritesNothing(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{nameRecord("rec1", "Jane Doe", "t1")},
	}
	dest := &mockDest{pages: map[string]string{}}
	syncStore := memory.NewSyncStateStore()
	runStore := memory.NewRunStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, syncStore, runStore, WithDryRun())
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, domain.ActionCreated, synced[0].Action)
	assert.Zero(t, dest.writeCount())

	entries, err := syncStore.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	runs, err := runStore.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunPassDryRunPreviewsDuplicateTitlesAsUpdate(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{
			nameRecord("rec1", "Jane Doe", "t1"),
			nameRecord("rec2", "Jane Doe", "t1"),
		},
	}
	dest := &mockDest{pages: map[string]string{}}

	orch := NewSyncOrchestrator(testConfig(), source, dest, memory.NewSyncStateStore(), nil, WithDryRun())
	synced, err := orch.RunPass(context.Background())

	require.NoError(t, err)
	require.Len(t, synced, 2)
	// Same outcome shape as a real pass: one create, then an update.
	assert.Equal(t, domain.ActionCreated, synced[0].Action)
	assert.Equal(t, domain.ActionUpdated, synced[1].Action)
	assert.Zero(t, dest.writeCount())
}

func TestRunPassRecordsHistory(t *testing.T) {
	source := &mockSource{
		records: []domain.SourceRecord{nameRecord("rec1", "Jane Doe", "t1")},
	}
	dest := &mockDest{pages: map[string]string{}}
	runStore := memory.NewRunStore()

	orch := NewSyncOrchestrator(testConfig(), source, dest, memory.NewSyncStateStore(), runStore)
	_, err := orch.RunPass(context.Background())
	require.NoError(t, err)

	runs, err := runStore.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
	assert.Equal(t, 1, runs[0].Created)
	assert.Empty(t, runs[0].Error)
}
