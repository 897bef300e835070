package zone

import (
	"errors"
	"testing"
)

// modeZone builds a zone of the given family reporting the given raw mode.
func modeZone(family Family, raw int64) *Zone {
	z := &Zone{ID: "z1", Family: family}
	index, ok := ResolveIndex(family, FieldMode, modeAny)
	if !ok {
		panic("no mode index for family")
	}
	z.SetPoint(index, raw)
	return z
}

func TestMode_Decode(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		raw    int64
		want   Mode
	}{
		{"auto is universal", FamilyThermostat, 0, ModeAuto},
		{"auto on v2", FamilyThermostatV2, 0, ModeAuto},
		{"all day on original thermostat", FamilyThermostat, 1, ModeAllDay},
		{"all day on original hot water", FamilyHotWater, 1, ModeAllDay},
		{"on means on for v2 thermostat", FamilyThermostatV2, 1, ModeOn},
		{"on means on for trv", FamilyTRV, 1, ModeOn},
		{"on for original families", FamilyThermostat, 2, ModeOn},
		{"off for original families", FamilyHotWater, 3, ModeOff},
		{"off for compact families", FamilyTRV, 4, ModeOff},
		{"v2 hot water all day", FamilyHotWaterV2, 9, ModeAllDay},
		{"v2 hot water on", FamilyHotWaterV2, 10, ModeOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := modeZone(tt.family, tt.raw)
			mode, err := z.Mode()
			if err != nil {
				t.Fatalf("Mode() error = %v", err)
			}
			if mode != tt.want {
				t.Errorf("Mode() = %s, want %s", mode, tt.want)
			}
		})
	}
}

func TestMode_UnknownValueIsError(t *testing.T) {
	// A raw value with no table row must fail loudly, never default.
	z := modeZone(FamilyThermostat, 9)
	if _, err := z.Mode(); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Mode() error = %v, want ErrUnknownMode", err)
	}
}

func TestMode_MissingTelemetryIsError(t *testing.T) {
	z := &Zone{ID: "z1", Family: FamilyThermostat}
	if _, err := z.Mode(); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Mode() error = %v, want ErrUnknownMode", err)
	}
}

func TestModeValue(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		mode   Mode
		want   int64
	}{
		{"original auto", FamilyThermostat, ModeAuto, 0},
		{"original all day", FamilyHotWater, ModeAllDay, 1},
		{"original on", FamilyThermostat, ModeOn, 2},
		{"original off", FamilyHotWater, ModeOff, 3},
		{"v2 thermostat on", FamilyThermostatV2, ModeOn, 1},
		{"v2 thermostat off", FamilyThermostatV2, ModeOff, 4},
		{"trv auto", FamilyTRV, ModeAuto, 0},
		{"v2 hot water all day", FamilyHotWaterV2, ModeAllDay, 9},
		{"v2 hot water on", FamilyHotWaterV2, ModeOn, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := &Zone{Family: tt.family}
			got, err := z.ModeValue(tt.mode)
			if err != nil {
				t.Fatalf("ModeValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ModeValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModeValue_UnsupportedOnCompact(t *testing.T) {
	// The V2 thermostat and TRV have no ALL_DAY; the wildcard row must not
	// leak the original families' wire value.
	for _, family := range []Family{FamilyThermostatV2, FamilyTRV} {
		z := &Zone{Family: family}
		if _, err := z.ModeValue(ModeAllDay); !errors.Is(err, ErrUnsupportedMode) {
			t.Errorf("ModeValue(ALL_DAY) on family %d error = %v, want ErrUnsupportedMode", family, err)
		}
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeAuto, "AUTO"},
		{ModeAllDay, "ALL_DAY"},
		{ModeOn, "ON"},
		{ModeOff, "OFF"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
