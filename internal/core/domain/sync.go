package domain

import "time"

// SyncEntry maps a source record to the fingerprint stored when it was
// last written to the destination.
type SyncEntry struct {
	// RecordID is the source record identifier.
	RecordID string

	// Fingerprint is the value the change detector compares against.
	Fingerprint string

	// SyncedAt is when the record was last written.
	SyncedAt time.Time
}

// WriteAction says how a record reached the destination during a pass.
type WriteAction string

const (
	// ActionCreated means a new page was created.
	ActionCreated WriteAction = "created"

	// ActionUpdated means an existing page was updated in place.
	ActionUpdated WriteAction = "updated"
)

// SyncedRecord identifies one record actually written during a pass.
type SyncedRecord struct {
	// RecordID is the source record identifier.
	RecordID string

	// Title is the record's display name, used for operator-facing logs.
	Title string

	// PageID is the destination page written to.
	PageID string

	// Action is whether the page was created or updated.
	Action WriteAction
}

// PassRun is the persisted outcome of one sync pass, kept for the
// history command.
type PassRun struct {
	// ID uniquely identifies the run.
	ID string

	// StartedAt and EndedAt bound the pass.
	StartedAt time.Time
	EndedAt   time.Time

	// Created, Updated, Skipped and Failed count record outcomes.
	Created int
	Updated int
	Skipped int
	Failed  int

	// Error holds the pass-level failure, if the pass aborted before
	// per-record processing. Empty on success.
	Error string
}
