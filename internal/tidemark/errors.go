package tidemark

import "errors"

var (
	// ErrUnavailable signals a transient storage failure. It is propagated
	// to the caller untouched; retries belong to the request layer.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrConflict is raised when two writers raced on the same collection
	// and the losing write observed a stale maximum timestamp. The caller
	// must retry the whole assign-and-write sequence.
	ErrConflict = errors.New("concurrent write conflict")

	// ErrNotFound is returned when a record does not exist in the live set.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownVersion means a collection has no cache entry and the
	// fallback aggregate scan could not produce one. Callers must treat the
	// version as unknown, never as zero.
	ErrUnknownVersion = errors.New("collection version unknown")
)
