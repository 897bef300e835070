package zone

import "errors"

// Domain-specific errors for zone field resolution and decoding.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnknownMode is returned when a zone's raw mode value has no row
	// in the per-family mode table, or mode telemetry is missing entirely.
	// This is fatal for the read: mode drives all other derived fields.
	ErrUnknownMode = errors.New("zone: unknown mode value")

	// ErrUnsupportedMode is returned when a mode command is requested for
	// a mode the device family cannot be put in.
	ErrUnsupportedMode = errors.New("zone: mode not supported by device family")

	// ErrReadOnlyField is returned when a write is attempted against a
	// field outside the writable whitelist.
	ErrReadOnlyField = errors.New("zone: cannot write to read-only field")

	// ErrUnsupportedField is returned when a write targets a field the
	// device family has no point index for.
	ErrUnsupportedField = errors.New("zone: field not supported by device family")
)
