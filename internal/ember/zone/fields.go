package zone

import (
	"fmt"
	"math"

	"github.com/nerrad567/ember-core/internal/ember/pointdata"
)

// Field is a logical zone field addressable through the point-index resolver.
type Field int

// Logical fields. The wire-level point index behind each field depends on
// the device family and, for FieldTargetTempWrite, on the current mode.
const (
	FieldAdvanceActive Field = iota + 1
	FieldCurrentTemp
	FieldTargetTempRead
	FieldTargetTempWrite
	FieldMode
	FieldBoostHours
	FieldBoostTime
	FieldBoilerState
	FieldBoostTemp
	FieldMaxTemp
	FieldMinTemp
)

// String returns the field name for logs and errors.
func (f Field) String() string {
	switch f {
	case FieldAdvanceActive:
		return "advance_active"
	case FieldCurrentTemp:
		return "current_temp"
	case FieldTargetTempRead:
		return "target_temp_r"
	case FieldTargetTempWrite:
		return "target_temp_w"
	case FieldMode:
		return "mode"
	case FieldBoostHours:
		return "boost_hours"
	case FieldBoostTime:
		return "boost_time"
	case FieldBoilerState:
		return "boiler_state"
	case FieldBoostTemp:
		return "boost_temp"
	case FieldMaxTemp:
		return "max_temp"
	case FieldMinTemp:
		return "min_temp"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// tableKey addresses one row of the point-index table.
type tableKey struct {
	family Family
	field  Field
	mode   Mode
}

// pointIndexTable is the single auditable map from (family, field, mode)
// to wire-level point index. modeAny rows apply regardless of mode;
// familyAny rows apply to every family without a more specific row.
// Supporting a new device family is a data change here, not a code change.
var pointIndexTable = map[tableKey]int{
	{familyAny, FieldAdvanceActive, modeAny}: 4,
	{familyAny, FieldCurrentTemp, modeAny}:   5,
	{familyAny, FieldTargetTempRead, modeAny}: 6,

	// The V2 thermostat keeps separate setpoints for automatic and manual
	// operation; every other family writes a single setpoint index.
	{FamilyThermostatV2, FieldTargetTempWrite, ModeAuto}: 17,
	{FamilyThermostatV2, FieldTargetTempWrite, modeAny}:  12,
	{FamilyHotWaterV2, FieldTargetTempWrite, modeAny}:    12,
	{FamilyTRV, FieldTargetTempWrite, modeAny}:           12,
	{familyAny, FieldTargetTempWrite, modeAny}:           6,

	{FamilyThermostatV2, FieldMode, modeAny}: 11,
	{FamilyHotWaterV2, FieldMode, modeAny}:   11,
	{FamilyTRV, FieldMode, modeAny}:          11,
	{familyAny, FieldMode, modeAny}:          7,

	{FamilyThermostatV2, FieldBoostHours, modeAny}: 13,
	{FamilyHotWaterV2, FieldBoostHours, modeAny}:   13,
	{FamilyTRV, FieldBoostHours, modeAny}:          13,
	{familyAny, FieldBoostHours, modeAny}:          8,

	{FamilyThermostatV2, FieldBoostTime, modeAny}: 15,
	{FamilyHotWaterV2, FieldBoostTime, modeAny}:   15,
	{FamilyTRV, FieldBoostTime, modeAny}:          15,
	{familyAny, FieldBoostTime, modeAny}:          9,

	{FamilyThermostatV2, FieldBoilerState, modeAny}: 18,
	{FamilyHotWaterV2, FieldBoilerState, modeAny}:   18,
	{familyAny, FieldBoilerState, modeAny}:          10,

	{familyAny, FieldBoostTemp, modeAny}: 14,

	// Temperature limits are only exposed by the V2 controllers; other
	// families resolve to "unsupported" and callers fall back to defaults.
	{FamilyThermostatV2, FieldMaxTemp, modeAny}: 7,
	{FamilyHotWaterV2, FieldMaxTemp, modeAny}:   7,
	{FamilyThermostatV2, FieldMinTemp, modeAny}: 8,
	{FamilyHotWaterV2, FieldMinTemp, modeAny}:   8,
}

// ResolveIndex maps a (family, field, mode) triple to a wire-level point
// index. The mode only matters for the handful of rows keyed by it; pass
// modeAny-insensitive modes freely.
//
// Returns:
//   - int: The point index
//   - bool: false when the field is unsupported on this family. That is a
//     valid outcome ("value unknown"), never an error.
func ResolveIndex(family Family, field Field, mode Mode) (int, bool) {
	lookups := [4]tableKey{
		{family, field, mode},
		{family, field, modeAny},
		{familyAny, field, mode},
		{familyAny, field, modeAny},
	}
	for _, key := range lookups {
		if index, ok := pointIndexTable[key]; ok {
			return index, true
		}
	}
	return 0, false
}

// PointIndex resolves the point index for a logical field on this zone.
//
// For the mode-dependent fields the zone's current mode is consulted; if
// mode telemetry is unavailable the mode-wildcard row is used, which for
// the V2 thermostat means the manual setpoint index.
func (z *Zone) PointIndex(f Field) (int, bool) {
	mode := modeAny
	if f == FieldTargetTempWrite && z.Family == FamilyThermostatV2 {
		if m, err := z.Mode(); err == nil {
			mode = m
		}
	}
	return ResolveIndex(z.Family, f, mode)
}

// writableFields is the fixed whitelist of fields that accept writes,
// with the wire datatype each is encoded as. Everything else is read-only
// and a write attempt must fail.
var writableFields = map[Field]pointdata.DataType{
	FieldAdvanceActive:   pointdata.SmallInt,
	FieldTargetTempWrite: pointdata.TempRW,
	FieldMode:            pointdata.SmallInt,
	FieldBoostHours:      pointdata.SmallInt,
	FieldBoostTime:       pointdata.Timestamp,
	FieldBoostTemp:       pointdata.TempRW,
}

// Command builds a point write for a logical field on this zone.
//
// The value is the wire-level integer: temperature fields expect tenths of
// a degree (use TemperatureCommand for degree values).
//
// Returns:
//   - pointdata.Command: Ready to bundle into an outbound blob
//   - error: ErrReadOnlyField for non-writable fields, ErrUnsupportedField
//     when the family has no index for the field
func (z *Zone) Command(f Field, value int64) (pointdata.Command, error) {
	datatype, ok := writableFields[f]
	if !ok {
		return pointdata.Command{}, fmt.Errorf("%w: %s", ErrReadOnlyField, f)
	}

	index, ok := z.PointIndex(f)
	if !ok {
		return pointdata.Command{}, fmt.Errorf("%w: %s on family %d", ErrUnsupportedField, f, z.Family)
	}

	return pointdata.Command{
		Index: index,
		Type:  datatype,
		Value: value,
	}, nil
}

// TemperatureCommand builds a temperature write from a value in degrees.
// The controllers use tenths of a degree on the wire.
func (z *Zone) TemperatureCommand(f Field, degrees float64) (pointdata.Command, error) {
	return z.Command(f, int64(math.Round(degrees*10)))
}
