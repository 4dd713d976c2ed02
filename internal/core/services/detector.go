package services

import "github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"

// DetectChange decides whether a record needs writing and returns the
// fingerprint to persist when it does.
//
// Records carrying attachments are always written: attachment URLs are
// not reliably reflected in the modification marker upstream, so
// timestamp comparison would miss image changes. Otherwise a record is
// skipped only when its marker equals the stored fingerprint. An empty
// marker always proceeds.
//
// Whether the write is a create or an update is the resolver's call,
// not this function's.
func DetectChange(rec domain.SourceRecord, known *domain.SyncEntry) (fingerprint string, changed bool) {
	fingerprint = rec.ModifiedMarker

	if rec.HasAttachments(FieldProfileImage) {
		return fingerprint, true
	}
	if fingerprint == "" {
		return fingerprint, true
	}
	if known != nil && known.Fingerprint == fingerprint {
		return fingerprint, false
	}
	return fingerprint, true
}
