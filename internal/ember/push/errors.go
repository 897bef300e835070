package push

import "errors"

// Domain-specific errors for the push transport.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnknownZone is returned when a command addresses a MAC that was
	// never registered. The facade treats this as a stale zone handle and
	// attempts recovery before surfacing it.
	ErrUnknownZone = errors.New("push: unknown zone")

	// ErrNotRunning is returned when a command is sent before Start or
	// after Stop.
	ErrNotRunning = errors.New("push: transport not running")
)
