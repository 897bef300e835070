package pointdata

import "errors"

// Domain-specific errors for point-data encoding and decoding.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidBase64 is returned when the blob is not valid base64.
	ErrInvalidBase64 = errors.New("pointdata: invalid base64 blob")

	// ErrUnknownDatatype is returned when encoding a command with an
	// unrecognised datatype. Decoding skips such records instead.
	ErrUnknownDatatype = errors.New("pointdata: unknown datatype")

	// ErrValueOutOfRange is returned when a command value does not fit
	// the fixed byte width of its datatype.
	ErrValueOutOfRange = errors.New("pointdata: value out of range")
)
