package directory

import "errors"

// Domain-specific errors for the zone directory.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrZoneNotFound is returned when a zone identifier is absent from
	// the current snapshot. The facade treats this error kind specially:
	// it drives the one-shot stale-handle recovery, so no other failure
	// may masquerade as it.
	ErrZoneNotFound = errors.New("directory: unknown zone")
)
