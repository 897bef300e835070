package zone

import (
	"testing"
	"time"
)

// clockMS returns a zone clock in Unix milliseconds for the given weekday
// (0=Sunday) and minute of day, in UTC.
func clockMS(weekday, minute int) int64 {
	// 2024-01-07 was a Sunday.
	base := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, weekday).Add(time.Duration(minute) * time.Minute).UnixMilli()
}

// viewZone builds a zone with the given family, points, and zone clock.
func viewZone(family Family, points map[int]int64, weekday, minute int) *Zone {
	z := &Zone{ID: "z1", Name: "Test", Family: family}
	z.ReplacePoints(points, clockMS(weekday, minute))
	return z
}

func TestCurrentTemperature(t *testing.T) {
	z := viewZone(FamilyThermostat, map[int]int64{5: 195}, 1, 720)
	if got := z.CurrentTemperature(); got != 19.5 {
		t.Errorf("CurrentTemperature() = %v, want 19.5", got)
	}

	empty := viewZone(FamilyThermostat, nil, 1, 720)
	if got := empty.CurrentTemperature(); got != 0 {
		t.Errorf("CurrentTemperature() with no telemetry = %v, want 0", got)
	}
}

func TestTargetTemperature_Standard(t *testing.T) {
	z := viewZone(FamilyThermostat, map[int]int64{6: 215}, 1, 720)
	got, err := z.TargetTemperature()
	if err != nil {
		t.Fatalf("TargetTemperature() error = %v", err)
	}
	if got != 21.5 {
		t.Errorf("TargetTemperature() = %v, want 21.5", got)
	}
}

func TestTargetTemperature_TRVAutoDerivesFromSchedule(t *testing.T) {
	// A TRV in AUTO has no readable setpoint; the active period's target
	// applies instead.
	z := viewZone(FamilyTRV, map[int]int64{11: 0}, 1, 720)
	z.Schedule.Days[1] = Day{Periods: []Period{
		instant(1, 80, 215),
		instant(2, 170, 180),
	}}

	got, err := z.TargetTemperature()
	if err != nil {
		t.Fatalf("TargetTemperature() error = %v", err)
	}
	if got != 21.5 {
		t.Errorf("TargetTemperature() = %v, want 21.5 from the running period", got)
	}
}

func TestTargetTemperature_TRVAutoEmptyDay(t *testing.T) {
	z := viewZone(FamilyTRV, map[int]int64{11: 0}, 3, 720)
	got, err := z.TargetTemperature()
	if err != nil {
		t.Fatalf("TargetTemperature() error = %v", err)
	}
	if got != 0 {
		t.Errorf("TargetTemperature() = %v, want 0 for empty day", got)
	}
}

func TestTemperatureLimits_Defaults(t *testing.T) {
	heating := viewZone(FamilyThermostat, nil, 1, 720)
	if got := heating.MinTemperature(); got != 5.0 {
		t.Errorf("MinTemperature() = %v, want 5.0", got)
	}
	if got := heating.MaxTemperature(); got != 35.0 {
		t.Errorf("MaxTemperature() = %v, want 35.0", got)
	}

	hotWater := viewZone(FamilyHotWater, nil, 1, 720)
	if got := hotWater.MaxTemperature(); got != 60.0 {
		t.Errorf("MaxTemperature() for hot water = %v, want 60.0", got)
	}
}

func TestTemperatureLimits_FromPoints(t *testing.T) {
	z := viewZone(FamilyThermostatV2, map[int]int64{7: 300, 8: 70}, 1, 720)
	if got := z.MaxTemperature(); got != 30.0 {
		t.Errorf("MaxTemperature() = %v, want 30.0", got)
	}
	if got := z.MinTemperature(); got != 7.0 {
		t.Errorf("MinTemperature() = %v, want 7.0", got)
	}
}

func TestBoost(t *testing.T) {
	z := viewZone(FamilyThermostat, map[int]int64{8: 2, 9: 1700000000, 14: 220}, 1, 720)
	if got := z.BoostHours(); got != 2 {
		t.Errorf("BoostHours() = %d, want 2", got)
	}
	if !z.BoostActive() {
		t.Error("BoostActive() = false with 2 boost hours")
	}
	if got := z.BoostTemperature(); got != 22.0 {
		t.Errorf("BoostTemperature() = %v, want 22.0", got)
	}
	at, ok := z.BoostTimestamp()
	if !ok || at.Unix() != 1700000000 {
		t.Errorf("BoostTimestamp() = (%v, %v), want Unix 1700000000", at, ok)
	}
}

func TestBoost_Inactive(t *testing.T) {
	z := viewZone(FamilyThermostat, map[int]int64{8: 0, 9: 0}, 1, 720)
	if z.BoostActive() {
		t.Error("BoostActive() = true with 0 boost hours")
	}
	if _, ok := z.BoostTimestamp(); ok {
		t.Error("BoostTimestamp() should report absent for zero value")
	}
}

func TestBoilerOn(t *testing.T) {
	on := viewZone(FamilyThermostat, map[int]int64{10: 2}, 1, 720)
	if !on.BoilerOn() {
		t.Error("BoilerOn() = false for state 2")
	}
	off := viewZone(FamilyThermostat, map[int]int64{10: 1}, 1, 720)
	if off.BoilerOn() {
		t.Error("BoilerOn() = true for state 1")
	}
}

func TestAdvanceActive(t *testing.T) {
	original := viewZone(FamilyThermostat, map[int]int64{4: 1}, 1, 720)
	if !original.AdvanceActive() {
		t.Error("AdvanceActive() = false on original family with advance set")
	}

	// The compact families misreport this point; it always reads false.
	for _, family := range []Family{FamilyThermostatV2, FamilyHotWaterV2, FamilyTRV} {
		z := viewZone(family, map[int]int64{4: 1}, 1, 720)
		if z.AdvanceActive() {
			t.Errorf("AdvanceActive() = true on compact family %d", family)
		}
	}
}

func TestScheduledOn_OnAndOff(t *testing.T) {
	off := viewZone(FamilyThermostat, map[int]int64{7: 3}, 1, 720)
	if on, err := off.ScheduledOn(3); err != nil || on {
		t.Errorf("ScheduledOn() in OFF = (%v, %v), want (false, nil)", on, err)
	}

	forcedOn := viewZone(FamilyThermostat, map[int]int64{7: 2}, 1, 720)
	if on, err := forcedOn.ScheduledOn(3); err != nil || !on {
		t.Errorf("ScheduledOn() in ON = (%v, %v), want (true, nil)", on, err)
	}
}

func TestScheduledOn_AutoInterval(t *testing.T) {
	z := viewZone(FamilyThermostat, map[int]int64{7: 0}, 1, 480)
	z.Schedule.Days[1] = Day{Periods: []Period{interval(1, 70, 90, 210)}}

	on, err := z.ScheduledOn(3)
	if err != nil {
		t.Fatalf("ScheduledOn() error = %v", err)
	}
	if !on {
		t.Error("ScheduledOn() = false at 08:00 inside 07:00-09:00")
	}

	// 10:00 is outside the interval and the day's last period does not
	// contain it either.
	late := viewZone(FamilyThermostat, map[int]int64{7: 0}, 1, 600)
	late.Schedule.Days[1] = z.Schedule.Days[1]
	on, err = late.ScheduledOn(3)
	if err != nil {
		t.Fatalf("ScheduledOn() error = %v", err)
	}
	if on {
		t.Error("ScheduledOn() = true at 10:00 outside 07:00-09:00")
	}
}

func TestScheduledOn_AutoInstantHysteresis(t *testing.T) {
	// TRV in AUTO with an instant-style schedule: the answer follows the
	// gap between the running period's target and the measured temperature.
	schedule := Day{Periods: []Period{
		instant(1, 80, 215), // running at noon, target 21.5
		instant(2, 170, 180),
	}}

	tests := []struct {
		name    string
		current int64
		want    bool
	}{
		{"well below target", 190, true},
		{"exactly the band below", 212, true},
		{"inside the band", 213, false},
		{"at target", 215, false},
		{"above target", 220, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := viewZone(FamilyTRV, map[int]int64{11: 0, 5: tt.current}, 1, 720)
			z.Schedule.Days[1] = schedule

			on, err := z.ScheduledOn(3)
			if err != nil {
				t.Fatalf("ScheduledOn() error = %v", err)
			}
			if on != tt.want {
				t.Errorf("ScheduledOn() with current %d = %v, want %v", tt.current, on, tt.want)
			}
		})
	}
}

func TestScheduledOn_AllDay(t *testing.T) {
	days := Day{Periods: []Period{
		interval(1, 70, 90, 210),
		interval(2, 170, 220, 205),
	}}

	inside := viewZone(FamilyThermostat, map[int]int64{7: 1}, 1, 720)
	inside.Schedule.Days[1] = days
	if on, err := inside.ScheduledOn(3); err != nil || !on {
		t.Errorf("ScheduledOn() at noon in ALL_DAY = (%v, %v), want (true, nil)", on, err)
	}

	before := viewZone(FamilyThermostat, map[int]int64{7: 1}, 1, 60)
	before.Schedule.Days[1] = days
	if on, err := before.ScheduledOn(3); err != nil || on {
		t.Errorf("ScheduledOn() at 01:00 in ALL_DAY = (%v, %v), want (false, nil)", on, err)
	}
}

func TestScheduledOn_UnknownModePropagates(t *testing.T) {
	z := viewZone(FamilyThermostat, nil, 1, 720)
	if _, err := z.ScheduledOn(3); err == nil {
		t.Error("ScheduledOn() without mode telemetry should fail")
	}
}

func TestActive_Composite(t *testing.T) {
	// Schedule says off, but a running boost keeps the zone active.
	z := viewZone(FamilyThermostat, map[int]int64{7: 3, 8: 1}, 1, 720)
	active, err := z.Active(3)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if !active {
		t.Error("Active() = false with a running boost")
	}

	idle := viewZone(FamilyThermostat, map[int]int64{7: 3, 8: 0}, 1, 720)
	active, err = idle.Active(3)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active {
		t.Error("Active() = true with everything off")
	}
}

func TestIsHotWater(t *testing.T) {
	if !(&Zone{Family: FamilyHotWater}).IsHotWater() {
		t.Error("IsHotWater() = false for family 4")
	}
	if (&Zone{Family: FamilyThermostat}).IsHotWater() {
		t.Error("IsHotWater() = true for family 2")
	}
}
