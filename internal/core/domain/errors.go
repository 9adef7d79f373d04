package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidIdentity indicates a document identity that cannot be parsed.
	ErrInvalidIdentity = errors.New("invalid document identity")

	// Infrastructure Errors.

	// ErrStorageUnavailable indicates the relational store could not be reached.
	// It is fatal to the current reconciliation run and is never retried by the core.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrIndexUnavailable indicates the search index could not be reached.
	// It is fatal to the current reconciliation run and is never retried by the core.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrLockUnavailable indicates an identity lock could not be acquired.
	ErrLockUnavailable = errors.New("identity lock unavailable")
)
