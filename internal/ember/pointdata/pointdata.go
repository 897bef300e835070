package pointdata

import (
	"encoding/base64"
	"fmt"
)

// DataType identifies the wire encoding of a point value.
type DataType byte

// Point datatypes understood by the controllers.
const (
	// SmallInt is a one-byte unsigned integer (modes, flags, hours).
	SmallInt DataType = 1

	// TempRO is a two-byte read-only temperature in tenths of a degree.
	TempRO DataType = 2

	// TempRW is a two-byte writable temperature in tenths of a degree.
	TempRW DataType = 4

	// Timestamp is a four-byte Unix timestamp.
	Timestamp DataType = 5
)

// Width returns the number of value bytes on the wire for the datatype,
// or 0 if the datatype is not recognised.
func (d DataType) Width() int {
	switch d {
	case SmallInt:
		return 1
	case TempRO, TempRW:
		return 2
	case Timestamp:
		return 4
	default:
		return 0
	}
}

// Entry is a single decoded point record.
type Entry struct {
	// Index is the point index the value belongs to.
	Index int

	// Type is the wire datatype of the value.
	Type DataType

	// Raw holds the value bytes exactly as received, big-endian.
	Raw []byte

	// Value is the big-endian unsigned integer interpretation of Raw.
	Value int64
}

// Command is a single point write to be encoded into an outbound blob.
// Value is the wire-level integer: temperatures must already be converted
// to tenths of a degree by the caller.
type Command struct {
	Index int
	Type  DataType
	Value int64
}

// Decoder states for the point-data scanner.
const (
	stateWait = iota
	stateIndex
	stateDatatype
	stateValue
)

// Decode parses a base64-encoded point-data blob into a map of point
// index to decoded entry.
//
// The stream is a sequence of records, each introduced by a zero delimiter
// byte followed by the point index, a datatype byte, and the value bytes
// at the datatype's fixed width, big-endian. Bytes outside a record are
// skipped. A record with an unrecognised datatype is dropped without
// affecting later records: a single corrupt record must not lose the rest
// of the stream.
//
// Parameters:
//   - encoded: Base64 point-data blob from a REST response or push message
//
// Returns:
//   - map[int]Entry: Decoded entries keyed by point index
//   - error: Only if the base64 envelope itself is malformed
func Decode(encoded string) (map[int]Entry, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}

	parsed := make(map[int]Entry)
	state := stateWait
	var index int
	var datatype DataType
	var value []byte

	for _, b := range raw {
		switch state {
		case stateWait:
			if b != 0 {
				continue // skip unexpected bytes between records
			}
			state = stateIndex

		case stateIndex:
			index = int(b)
			state = stateDatatype

		case stateDatatype:
			datatype = DataType(b)
			if datatype.Width() == 0 {
				// Unknown datatype: abort this record, keep scanning.
				state = stateWait
				continue
			}
			value = value[:0]
			state = stateValue

		case stateValue:
			value = append(value, b)
			if len(value) == datatype.Width() {
				raw := make([]byte, len(value))
				copy(raw, value)
				parsed[index] = Entry{
					Index: index,
					Type:  datatype,
					Raw:   raw,
					Value: bytesToInt(raw),
				}
				state = stateWait
			}
		}
	}

	return parsed, nil
}

// Encode builds a base64-encoded point-data blob from one or more commands.
//
// Each command is emitted as [0x00, index, datatype] followed by the value's
// big-endian bytes at the datatype's fixed width. A value that does not fit
// the datatype's width is rejected rather than truncated.
//
// Parameters:
//   - commands: Point writes to bundle into a single blob
//
// Returns:
//   - string: Base64 blob ready to publish
//   - error: If a command has an unknown datatype or an out-of-range value
func Encode(commands []Command) (string, error) {
	var out []byte
	for _, cmd := range commands {
		width := cmd.Type.Width()
		if width == 0 {
			return "", fmt.Errorf("%w: datatype %d", ErrUnknownDatatype, cmd.Type)
		}
		if cmd.Value < 0 || cmd.Value >= 1<<(8*width) {
			return "", fmt.Errorf("%w: value %d does not fit %d bytes (index %d)",
				ErrValueOutOfRange, cmd.Value, width, cmd.Index)
		}

		out = append(out, 0, byte(cmd.Index), byte(cmd.Type))
		for i := width - 1; i >= 0; i-- {
			out = append(out, byte(cmd.Value>>(8*i)))
		}
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// bytesToInt accumulates big-endian bytes into an unsigned integer.
func bytesToInt(b []byte) int64 {
	var result int64
	for _, v := range b {
		result = result*256 + int64(v)
	}
	return result
}
