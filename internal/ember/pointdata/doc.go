// Package pointdata implements the compact binary telemetry and command
// encoding used by EPH Ember controllers.
//
// Point data is a sparse register-style format: a base64 blob carrying a
// sequence of (index, datatype, value) records. The same encoding is used
// for inbound telemetry (inline in REST responses and in push messages)
// and outbound commands (published to a zone's download topic).
//
// # Wire format
//
// Each record is:
//
//	0x00 <index> <datatype> <value bytes...>
//
// where the datatype selects the fixed value width:
//
//	1 → 1 byte  (small integer)
//	2 → 2 bytes (read-only temperature, tenths of a degree)
//	4 → 2 bytes (writable temperature, tenths of a degree)
//	5 → 4 bytes (Unix timestamp)
//
// Values are big-endian unsigned integers. A record with an unknown
// datatype is skipped; the rest of the stream still decodes.
package pointdata
