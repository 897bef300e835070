package zone

import "time"

// Default temperature limits, in degrees, for families that do not expose
// their limits as point data.
const (
	defaultMinTemp         = 5.0
	defaultMaxTemp         = 35.0
	defaultMaxTempHotWater = 60.0
)

// Boiler state wire values: 1 means flame off, 2 means flame on.
const boilerStateOn = 2

// IsHotWater reports whether the zone is a hot-water device.
// Hot-water zones have no temperature control.
func (z *Zone) IsHotWater() bool {
	return z.Family == FamilyHotWater
}

// CurrentTemperature returns the measured temperature in degrees.
// Absent telemetry yields 0: missing data is common and must not break
// entity rendering.
func (z *Zone) CurrentTemperature() float64 {
	v, ok := z.fieldValue(FieldCurrentTemp)
	if !ok {
		return 0
	}
	return float64(v) / 10
}

// TargetTemperature returns the target temperature in degrees.
//
// For the TRV family in AUTO mode the setpoint is not readable from its
// own point index; it is derived from the currently active schedule
// period instead. A day with no periods yields 0.
//
// Returns an error only when the mode telemetry needed for the TRV
// derivation cannot be decoded.
func (z *Zone) TargetTemperature() (float64, error) {
	if z.Family == FamilyTRV {
		mode, err := z.Mode()
		if err != nil {
			return 0, err
		}
		if mode == ModeAuto {
			minute, weekday := z.clock()
			program, ok := z.Schedule.activeProgram(mode, minute, weekday)
			if !ok {
				return 0, nil
			}
			return float64(program.Current.Temp) / 10, nil
		}
	}

	v, ok := z.fieldValue(FieldTargetTempRead)
	if !ok {
		return 0, nil
	}
	return float64(v) / 10, nil
}

// BoostTemperature returns the boost target temperature in degrees,
// or 0 when absent.
func (z *Zone) BoostTemperature() float64 {
	v, ok := z.fieldValue(FieldBoostTemp)
	if !ok {
		return 0
	}
	return float64(v) / 10
}

// MinTemperature returns the lowest settable temperature in degrees.
// Families without a limit point fall back to the documented default.
func (z *Zone) MinTemperature() float64 {
	v, ok := z.fieldValue(FieldMinTemp)
	if !ok {
		return defaultMinTemp
	}
	return float64(v) / 10
}

// MaxTemperature returns the highest settable temperature in degrees.
// Families without a limit point fall back to a family-aware default.
func (z *Zone) MaxTemperature() float64 {
	v, ok := z.fieldValue(FieldMaxTemp)
	if !ok {
		if z.IsHotWater() {
			return defaultMaxTempHotWater
		}
		return defaultMaxTemp
	}
	return float64(v) / 10
}

// BoostHours returns the remaining boost duration in hours, or 0.
func (z *Zone) BoostHours() int64 {
	v, ok := z.fieldValue(FieldBoostHours)
	if !ok {
		return 0
	}
	return v
}

// BoostActive reports whether a boost override is running.
func (z *Zone) BoostActive() bool {
	return z.BoostHours() > 0
}

// BoostTimestamp returns the timestamp recorded for the boost, and whether
// the zone reported one.
func (z *Zone) BoostTimestamp() (time.Time, bool) {
	v, ok := z.fieldValue(FieldBoostTime)
	if !ok || v == 0 {
		return time.Time{}, false
	}
	return time.Unix(v, 0).UTC(), true
}

// BoilerState returns the raw boiler state value (1 flame off, 2 flame on),
// or 0 when absent.
func (z *Zone) BoilerState() int64 {
	v, ok := z.fieldValue(FieldBoilerState)
	if !ok {
		return 0
	}
	return v
}

// BoilerOn reports whether the boiler is burning fuel for this zone.
func (z *Zone) BoilerOn() bool {
	return z.BoilerState() == boilerStateOn
}

// AdvanceActive reports whether the advance override is running.
// Only the original families report advance reliably; the V2 controllers
// and the TRV misreport this point, so they always read false.
func (z *Zone) AdvanceActive() bool {
	if compactFamily(z.Family) {
		return false
	}
	v, ok := z.fieldValue(FieldAdvanceActive)
	return ok && v != 0
}

// ScheduledOn reports whether the zone's program says it should be heating
// right now.
//
// OFF is always false and ON always true. AUTO and ALL_DAY evaluate the
// schedule against the zone-local clock. When the active program resolves
// to an instant-style pair the answer also applies a hysteresis band: the
// zone reads "on" only while the current temperature is at least
// hysteresisTenths below the running period's target, mirroring real
// boiler cycling near the setpoint.
//
// Returns an error when the mode telemetry cannot be decoded.
func (z *Zone) ScheduledOn(hysteresisTenths int) (bool, error) {
	mode, err := z.Mode()
	if err != nil {
		return false, err
	}

	switch mode {
	case ModeOff:
		return false, nil
	case ModeOn:
		return true, nil
	}

	minute, weekday := z.clock()
	program, ok := z.Schedule.activeProgram(mode, minute, weekday)
	if !ok {
		return false, nil
	}

	switch mode {
	case ModeAuto:
		if !program.Paired {
			return program.Current.contains(minute), nil
		}
		current, _ := z.fieldValue(FieldCurrentTemp)
		return int(program.Current.Temp)-int(current) >= hysteresisTenths, nil

	case ModeAllDay:
		if program.Current.Start < 0 || program.Next.End < 0 {
			return false, nil
		}
		start := minutesFromCompact(program.Current.Start)
		end := minutesFromCompact(program.Next.End)
		return start <= minute && minute <= end, nil
	}

	return false, nil
}

// Active reports whether the zone is heating for any reason: scheduled
// program, boost override, or advance override.
func (z *Zone) Active(hysteresisTenths int) (bool, error) {
	on, err := z.ScheduledOn(hysteresisTenths)
	if err != nil {
		return false, err
	}
	if on {
		return true, nil
	}
	return z.BoostActive() || z.AdvanceActive(), nil
}
