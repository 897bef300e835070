package zone

import (
	"sync"
	"time"
)

// Family is the device-type code partitioning zones into groups with
// distinct point-index maps and mode semantics.
type Family int

// Known device families.
const (
	// FamilyThermostat is the original room thermostat (deviceType 2).
	FamilyThermostat Family = 2

	// FamilyHotWater is the original hot-water controller (deviceType 4).
	// Hot-water zones have no temperature control.
	FamilyHotWater Family = 4

	// FamilyThermostatV2 is the newer room thermostat (deviceType 258).
	FamilyThermostatV2 Family = 258

	// FamilyHotWaterV2 is the newer hot-water controller (deviceType 514).
	FamilyHotWaterV2 Family = 514

	// FamilyTRV is the thermostatic radiator valve (deviceType 773).
	FamilyTRV Family = 773
)

// familyAny is the wildcard used in lookup tables for entries that apply
// to every family without a more specific row.
const familyAny Family = -1

// Compact reports whether the family belongs to the newer generation of
// controllers (258, 514, 773), which share boost and timestamp quirks.
func (f Family) Compact() bool {
	return f == FamilyThermostatV2 || f == FamilyHotWaterV2 || f == FamilyTRV
}

// compactFamily is the function form of Family.Compact for table code.
func compactFamily(f Family) bool {
	return f.Compact()
}

// Zone is one controllable heating circuit or hot-water device within a home.
//
// A Zone is rebuilt wholesale on every directory refresh; between refreshes
// individual point entries are mutated in place by push updates. The point
// map is the single source of truth for every logical field.
//
// Thread Safety:
//   - Point reads and writes are guarded by a per-zone mutex, since the
//     REST refresh path and the push receive loop touch the same map.
type Zone struct {
	// ID is the server-side zone identifier. It can be reassigned by the
	// vendor independently of MAC; see the facade's stale-handle recovery.
	ID string

	// Name is the user-visible display name.
	Name string

	// Family is the device-type code.
	Family Family

	// MAC is the stable physical address, used as the push-transport
	// routing key and for relocating the zone after identifier churn.
	MAC string

	// ProductID and UID form the per-zone topic prefix on the push broker.
	ProductID string
	UID       string

	// GatewayID identifies the home gateway the zone belongs to.
	GatewayID string

	// Schedule is the weekly program tree.
	Schedule Schedule

	mu sync.RWMutex

	// points maps point index to the last-seen integer value.
	points map[int]int64

	// timestampMS is the zone clock in Unix milliseconds, taken from the
	// REST snapshot and bumped on every push update.
	timestampMS int64
}

// Point returns the raw value for a point index, and whether the zone has
// any data for that index. Absent telemetry is common and not an error.
func (z *Zone) Point(index int) (int64, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	v, ok := z.points[index]
	return v, ok
}

// SetPoint stores a raw value for a point index, creating the entry if the
// zone has not reported it before.
func (z *Zone) SetPoint(index int, value int64) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.points == nil {
		z.points = make(map[int]int64)
	}
	z.points[index] = value
}

// SetPoints applies a batch of point updates and bumps the zone clock,
// as happens when a push message arrives.
func (z *Zone) SetPoints(points map[int]int64, at time.Time) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.points == nil {
		z.points = make(map[int]int64)
	}
	for index, value := range points {
		z.points[index] = value
	}
	z.timestampMS = at.UnixMilli()
}

// ReplacePoints swaps the entire point map, as happens on a full REST refresh.
func (z *Zone) ReplacePoints(points map[int]int64, timestampMS int64) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.points = points
	z.timestampMS = timestampMS
}

// TimestampMS returns the zone clock in Unix milliseconds.
func (z *Zone) TimestampMS() int64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.timestampMS
}

// clock returns the zone-local time of day in minutes from midnight and
// the weekday (0=Sunday..6=Saturday), derived from the zone clock in UTC.
func (z *Zone) clock() (minuteOfDay, weekday int) {
	t := time.UnixMilli(z.TimestampMS()).UTC()
	return t.Hour()*60 + t.Minute(), int(t.Weekday())
}

// fieldValue reads the raw value behind a logical field, going through the
// point-index resolver. The second return is false when the field is
// unsupported on this family or the zone has no data for it.
func (z *Zone) fieldValue(f Field) (int64, bool) {
	index, ok := z.PointIndex(f)
	if !ok {
		return 0, false
	}
	return z.Point(index)
}
