package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrBackendClosed is returned when a backend has no more native events.
	ErrBackendClosed = errors.New("platform: backend closed")

	// ErrNoBackend is returned by BlockOn when the runtime was built without a
	// backend and the root task can make no progress.
	ErrNoBackend = errors.New("platform: no backend")
)
