package zone

import "fmt"

// Period is one named program period within a weekday.
//
// Two encodings exist in the field. Interval-style periods carry Start and
// End; instant-style periods (some TRV firmwares) carry only the activation
// time At and rely on the neighbouring periods to delimit the interval.
// Absent times are -1: zero is a valid time (midnight).
type Period struct {
	// Slot is the 1-based program slot within the day (p1, p2, p3).
	Slot int

	// Start and End are compact schedule times, -1 when the program has
	// no interval encoding.
	Start int
	End   int

	// At is the activation instant for instant-style programs, -1 when absent.
	At int

	// Temp is the period's target temperature in tenths of a degree.
	Temp int
}

// Day is the ordered set of periods for one weekday. Days observed in the
// field carry at most three periods.
type Day struct {
	Periods []Period
}

// Schedule is a zone's weekly program: seven fixed day slots indexed by
// weekday (0=Sunday..6=Saturday).
//
// Periods form a circular sequence over the full week. Neighbour lookup is
// done with index arithmetic over the day array rather than embedded
// prev/next pointers, preserving the across-midnight and week-wrap
// semantics without a linked structure.
type Schedule struct {
	Days [7]Day
}

// ActiveProgram is the result of resolving "what is currently active".
//
// For an interval-style match Current is the containing period and Paired
// is false. For instant-style resolution Current is the period whose
// activation most recently passed and Next the upcoming one. For ALL_DAY
// evaluation Current and Next span the day's first and last periods.
type ActiveProgram struct {
	Current Period
	Next    Period
	Paired  bool
}

// minutesFromCompact converts a compact schedule time to minutes from
// midnight. The tens-digit blocks encode hours and the unit digit a
// 10-minute increment, so 173 denotes 17:30. Negative input clamps to 0.
func minutesFromCompact(t int) int {
	if t < 0 {
		return 0
	}
	return (t/10)*60 + (t%10)*10
}

// FormatScheduleTime renders a compact schedule time as "HH:MM".
// Zero and negative values render as "00:00".
func FormatScheduleTime(t int) string {
	if t <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", t/10, (t%10)*10)
}

// prev returns the period preceding slot index i of the given day,
// wrapping across day and week boundaries. With a single period in the
// whole week the period is its own predecessor.
func (s *Schedule) prev(day, i int) (Period, bool) {
	if i > 0 {
		return s.Days[day].Periods[i-1], true
	}
	for step := 1; step <= 7; step++ {
		d := (day + 7 - step) % 7
		periods := s.Days[d].Periods
		if len(periods) > 0 {
			return periods[len(periods)-1], true
		}
	}
	return Period{}, false
}

// next returns the period following slot index i of the given day,
// wrapping across day and week boundaries.
func (s *Schedule) next(day, i int) (Period, bool) {
	if i < len(s.Days[day].Periods)-1 {
		return s.Days[day].Periods[i+1], true
	}
	for step := 1; step <= 7; step++ {
		d := (day + step) % 7
		periods := s.Days[d].Periods
		if len(periods) > 0 {
			return periods[0], true
		}
	}
	return Period{}, false
}

// contains reports whether the period's interval covers the given minute
// of day. Instant-style periods never match by containment.
func (p Period) contains(minute int) bool {
	if p.Start < 0 || p.End < 0 {
		return false
	}
	return minutesFromCompact(p.Start) <= minute && minute <= minutesFromCompact(p.End)
}

// activeProgram resolves the currently active program for the given mode
// and zone-local time.
//
// For AUTO: the first period whose interval contains the current time wins.
// Instant-style periods match on the nearest upcoming activation, pairing
// the predecessor (the period actually running) with the upcoming one.
// When nothing matches, the day's last period applies — paired with its
// successor when it is instant-style.
//
// For ALL_DAY: the day's first and last periods as a span.
//
// Returns false when the day has no periods at all, or the mode has no
// schedule semantics (ON, OFF).
func (s *Schedule) activeProgram(mode Mode, minute, weekday int) (ActiveProgram, bool) {
	periods := s.Days[weekday].Periods
	if len(periods) == 0 {
		return ActiveProgram{}, false
	}

	switch mode {
	case ModeAuto:
		for i, p := range periods {
			if p.contains(minute) {
				return ActiveProgram{Current: p}, true
			}
			if p.At >= 0 && minutesFromCompact(p.At) >= minute {
				prev, ok := s.prev(weekday, i)
				if !ok {
					prev = p
				}
				return ActiveProgram{Current: prev, Next: p, Paired: true}, true
			}
		}

		// Gap between intervals, or every activation already passed:
		// the day's last program is the one in effect.
		last := periods[len(periods)-1]
		if last.At < 0 {
			return ActiveProgram{Current: last}, true
		}
		next, ok := s.next(weekday, len(periods)-1)
		if !ok {
			next = last
		}
		return ActiveProgram{Current: last, Next: next, Paired: true}, true

	case ModeAllDay:
		return ActiveProgram{
			Current: periods[0],
			Next:    periods[len(periods)-1],
			Paired:  true,
		}, true
	}

	return ActiveProgram{}, false
}
