// Package zone models EPH Ember heating zones and derives semantic state
// from their raw point data.
//
// This package contains:
//   - The Zone data model (identity, family, point map, weekly schedule)
//   - The point-index resolver: one table mapping (family, field, mode)
//     to wire-level point indices, covering every known device family
//   - Mode tables translating raw mode values to semantic modes and back
//   - Pure derivation functions for temperature, boost, boiler and
//     scheduled-on state
//
// # Device families
//
// Zones are partitioned by an integer device-type code. Families observed
// in the field: 2 (thermostat), 4 (hot-water controller), 258 (V2
// thermostat), 514 (V2 hot-water controller) and 773 (radiator valve).
// Each family has its own point-index map and mode wire values; the
// resolver table is the single place those quirks live.
//
// # Defaults
//
// Absent telemetry in read paths yields documented defaults (0 for
// temperatures, family-aware limits for min/max) rather than errors.
// The one exception is the mode value: an unmapped mode is surfaced as
// ErrUnknownMode, never silently defaulted, because every other derived
// field depends on it.
package zone
