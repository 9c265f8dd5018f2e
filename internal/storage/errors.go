package storage

import "errors"

var (
	// ErrNotFound indicates that a record id did not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable indicates the backend failed to initialize or
	// is unreachable. Reads degrade to empty results; writes fail fast.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTransactionFailed indicates the underlying write transaction
	// aborted. Prior state is left intact, never partially applied.
	ErrTransactionFailed = errors.New("write transaction failed")
)
