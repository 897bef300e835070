package zone

import "fmt"

// Mode is the operating mode of a zone.
type Mode int

// Zone operating modes. These are the semantic modes presented to
// consumers; the wire values behind them differ per device family.
const (
	ModeAuto Mode = iota
	ModeAllDay
	ModeOn
	ModeOff
)

// modeAny is the wildcard used in lookup tables for rows that apply
// regardless of the current mode.
const modeAny Mode = -1

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "AUTO"
	case ModeAllDay:
		return "ALL_DAY"
	case ModeOn:
		return "ON"
	case ModeOff:
		return "OFF"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// modeKey addresses one row of the wire-to-mode table.
type modeKey struct {
	family Family
	raw    int64
}

// modeFromWire maps a (family, raw mode value) pair to a semantic mode.
// familyAny rows apply to every family without a more specific row.
//
// An unmapped pair is a fatal decode error, never silently defaulted:
// mode drives every other derived field and a wrong guess is worse than
// a loud failure.
var modeFromWire = map[modeKey]Mode{
	{familyAny, 0}: ModeAuto,

	{FamilyThermostat, 1}:   ModeAllDay,
	{FamilyHotWater, 1}:     ModeAllDay,
	{FamilyThermostatV2, 1}: ModeOn,
	{FamilyTRV, 1}:          ModeOn,

	{FamilyThermostat, 2}: ModeOn,
	{FamilyHotWater, 2}:   ModeOn,

	{FamilyThermostat, 3}: ModeOff,
	{FamilyHotWater, 3}:   ModeOff,

	{FamilyThermostatV2, 4}: ModeOff,
	{FamilyHotWaterV2, 4}:   ModeOff,
	{FamilyTRV, 4}:          ModeOff,

	{FamilyHotWaterV2, 9}:  ModeAllDay,
	{FamilyHotWaterV2, 10}: ModeOn,
}

// wireKey addresses one row of the mode-to-wire table.
type wireKey struct {
	family Family
	mode   Mode
}

// modeToWire maps a (family, semantic mode) pair to the raw value a mode
// command must carry. familyAny covers the original families (2, 4).
var modeToWire = map[wireKey]int64{
	{FamilyThermostatV2, ModeAuto}: 0,
	{FamilyThermostatV2, ModeOn}:   1,
	{FamilyThermostatV2, ModeOff}:  4,

	{FamilyTRV, ModeAuto}: 0,
	{FamilyTRV, ModeOn}:   1,
	{FamilyTRV, ModeOff}:  4,

	{FamilyHotWaterV2, ModeAuto}:   0,
	{FamilyHotWaterV2, ModeAllDay}: 9,
	{FamilyHotWaterV2, ModeOn}:     10,
	{FamilyHotWaterV2, ModeOff}:    4,

	{familyAny, ModeAuto}:   0,
	{familyAny, ModeAllDay}: 1,
	{familyAny, ModeOn}:     2,
	{familyAny, ModeOff}:    3,
}

// Mode returns the zone's current operating mode.
//
// A missing mode point or a (family, raw value) pair absent from the
// table is reported as ErrUnknownMode: the wire protocol returned
// something the tables don't know about.
func (z *Zone) Mode() (Mode, error) {
	raw, ok := z.fieldValue(FieldMode)
	if !ok {
		return 0, fmt.Errorf("%w: no mode telemetry for zone %q (family %d)", ErrUnknownMode, z.ID, z.Family)
	}

	if mode, ok := modeFromWire[modeKey{z.Family, raw}]; ok {
		return mode, nil
	}
	if mode, ok := modeFromWire[modeKey{familyAny, raw}]; ok {
		return mode, nil
	}

	return 0, fmt.Errorf("%w: value %d on family %d (zone %q)", ErrUnknownMode, raw, z.Family, z.ID)
}

// ModeValue returns the raw wire value a mode command must carry for this
// zone's family, or ErrUnsupportedMode when the family cannot be put in
// that mode (the V2 thermostat and TRV have no ALL_DAY).
func (z *Zone) ModeValue(mode Mode) (int64, error) {
	if v, ok := modeToWire[wireKey{z.Family, mode}]; ok {
		return v, nil
	}
	if !compactFamily(z.Family) {
		if v, ok := modeToWire[wireKey{familyAny, mode}]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s on family %d", ErrUnsupportedMode, mode, z.Family)
}
