package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/ember-core/internal/ember/rest"
	"github.com/nerrad567/ember-core/internal/ember/zone"
	"github.com/nerrad567/ember-core/internal/infrastructure/logging"
)

// API is the slice of the REST session the directory depends on.
type API interface {
	ListHomes(ctx context.Context) ([]rest.Home, error)
	ZoneProgram(ctx context.Context, gatewayID string) (*rest.ZoneProgramResult, error)
}

// Directory fetches and caches the home/zone/schedule topology.
//
// A snapshot is served from cache until its declared next-refresh time,
// then rebuilt wholesale: homes are listed, each home's zone-program tree
// fetched, and every zone reconstructed including its weekly schedule.
// Between refreshes, push updates mutate individual zone points in place
// via ApplyPointData.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The snapshot is guarded by
//     a read-write mutex; individual zones carry their own point locks.
type Directory struct {
	api API
	log *logging.Logger
	ttl time.Duration

	mu          sync.RWMutex
	zones       []*zone.Zone
	nextRefresh time.Time

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates a Directory over the given API with the given cache window.
func New(api API, ttl time.Duration, log *logging.Logger) *Directory {
	return &Directory{
		api: api,
		log: log.With("component", "directory"),
		ttl: ttl,
		now: time.Now,
	}
}

// Zones returns the current zone snapshot, refreshing it from the REST
// API when the cache window has passed. The cache window is short enough
// to stay responsive to user commands and long enough to avoid hammering
// the API on repeated entity polls.
func (d *Directory) Zones(ctx context.Context) ([]*zone.Zone, error) {
	d.mu.RLock()
	if d.zones != nil && d.now().Before(d.nextRefresh) {
		zones := d.zones
		d.mu.RUnlock()
		return zones, nil
	}
	d.mu.RUnlock()

	return d.refresh(ctx)
}

// Zone returns one zone by its server-side identifier.
//
// A miss is reported as ErrZoneNotFound carrying the identifier. The
// facade special-cases this error kind for stale-handle recovery, so it
// must stay distinguishable from every other failure.
func (d *Directory) Zone(ctx context.Context, id string) (*zone.Zone, error) {
	zones, err := d.Zones(ctx)
	if err != nil {
		return nil, err
	}

	for _, z := range zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
}

// ByMAC returns the cached zone with the given physical address, or nil
// when absent. Used in fallback and recovery paths, so a miss is a null
// result rather than an error, and no fetch is triggered.
func (d *Directory) ByMAC(mac string) *zone.Zone {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, z := range d.zones {
		if z.MAC == mac {
			return z
		}
	}
	return nil
}

// Invalidate forces the next Zones call to rebuild the snapshot.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.nextRefresh = time.Time{}
	d.mu.Unlock()
}

// ApplyPointData merges decoded push telemetry into the cached zone with
// the given physical address, so subsequent reads reflect the push update
// without a REST refresh. Reports whether a zone was found.
func (d *Directory) ApplyPointData(mac string, points map[int]int64) bool {
	z := d.ByMAC(mac)
	if z == nil {
		d.log.Debug("push update for unknown mac", "mac", mac)
		return false
	}

	z.SetPoints(points, d.now())
	d.log.Debug("zone updated from push", "zone", z.Name, "points", len(points))
	return true
}

// refresh rebuilds the snapshot: list homes, fetch each home's
// zone-program tree, construct fresh zone objects.
func (d *Directory) refresh(ctx context.Context) ([]*zone.Zone, error) {
	homes, err := d.api.ListHomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing homes: %w", err)
	}

	var zones []*zone.Zone
	for _, home := range homes {
		result, err := d.api.ZoneProgram(ctx, home.GatewayID)
		if err != nil {
			return nil, fmt.Errorf("fetching zones for gateway %s: %w", home.GatewayID, err)
		}
		for _, record := range result.Zones {
			zones = append(zones, buildZone(home, record, result.Timestamp))
		}
	}

	d.mu.Lock()
	d.zones = zones
	d.nextRefresh = d.now().Add(d.ttl)
	d.mu.Unlock()

	d.log.Debug("zone snapshot refreshed", "zones", len(zones))
	return zones, nil
}

// buildZone turns a wire-level zone record into a model zone, including
// its point map and cross-linked weekly schedule.
func buildZone(home rest.Home, record rest.ZoneRecord, timestampMS int64) *zone.Zone {
	z := &zone.Zone{
		ID:        record.ZoneID.String(),
		Name:      record.Name,
		Family:    zone.Family(record.DeviceType),
		MAC:       record.MAC,
		ProductID: record.ProductID,
		UID:       record.UID,
		GatewayID: home.GatewayID,
		Schedule:  buildSchedule(record.Days),
	}

	points := make(map[int]int64, len(record.Points))
	for _, p := range record.Points {
		if v, err := p.Value.Int64(); err == nil {
			points[p.PointIndex] = v
		}
	}
	z.ReplacePoints(points, timestampMS)

	return z
}

// buildSchedule lays the wire-level program days into the seven fixed
// weekday slots, keeping slot order within each day.
func buildSchedule(days []rest.DayRecord) zone.Schedule {
	var s zone.Schedule
	for _, day := range days {
		if day.DayType < 0 || day.DayType > 6 {
			continue
		}
		slots := [3]*rest.ProgramRecord{day.P1, day.P2, day.P3}
		var periods []zone.Period
		for i, program := range slots {
			if program == nil {
				continue
			}
			periods = append(periods, zone.Period{
				Slot:  i + 1,
				Start: timeOrAbsent(program.StartTime),
				End:   timeOrAbsent(program.EndTime),
				At:    timeOrAbsent(program.Time),
				Temp:  program.Temperature,
			})
		}
		s.Days[day.DayType] = zone.Day{Periods: periods}
	}
	return s
}

// timeOrAbsent maps a missing compact time to the -1 sentinel.
func timeOrAbsent(t *int) int {
	if t == nil {
		return -1
	}
	return *t
}
