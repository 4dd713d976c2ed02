package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates required configuration is missing or
	// invalid. A pass fails fast on this before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrSyncInProgress indicates a pass is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
