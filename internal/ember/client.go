package ember

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/ember-core/internal/diagnostics"
	"github.com/nerrad567/ember-core/internal/ember/directory"
	"github.com/nerrad567/ember-core/internal/ember/pointdata"
	"github.com/nerrad567/ember-core/internal/ember/push"
	"github.com/nerrad567/ember-core/internal/ember/rest"
	"github.com/nerrad567/ember-core/internal/ember/zone"
	"github.com/nerrad567/ember-core/internal/infrastructure/config"
	"github.com/nerrad567/ember-core/internal/infrastructure/logging"
)

// zoneDirectory is the slice of the zone directory the facade depends on.
type zoneDirectory interface {
	Zones(ctx context.Context) ([]*zone.Zone, error)
	Zone(ctx context.Context, id string) (*zone.Zone, error)
	ByMAC(mac string) *zone.Zone
	Invalidate()
}

// transport is the slice of the push messenger the facade depends on.
type transport interface {
	Start(ctx context.Context) error
	Stop()
	Connected() bool
	SubscribeZones(zones []*zone.Zone) int
	Send(ctx context.Context, mac string, commands []pointdata.Command) error
	OnPointData(hook push.PointDataHook)
	OnMessage(hook push.MessageHook)
	OnLog(hook push.LogHook)
}

// Client is the single entry point to the Ember cloud: authentication,
// zone discovery, semantic reads, and command writes behind one surface.
//
// Zones are addressed by their server-side identifier. The vendor
// occasionally reassigns identifiers while the physical device keeps its
// MAC, so the client remembers which MAC each identifier last resolved
// to; when an operation hits a stale handle it refreshes the directory,
// relocates the zone by MAC, and retries exactly once.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Client struct {
	cfg      *config.Config
	log      *logging.Logger
	session  *rest.Session
	dir      zoneDirectory
	msgr     transport
	recorder *diagnostics.Recorder

	// handles maps zone identifier to the MAC it last resolved to,
	// the breadcrumb stale-handle recovery follows.
	handleMu sync.Mutex
	handles  map[string]string

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New authenticates against the cloud and returns a ready Client.
//
// Login failure is the only fatal condition: with valid credentials every
// later failure is transient and retried or surfaced per operation.
func New(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Client, error) {
	session := rest.New(cfg.Ember, log)
	if err := session.Login(ctx); err != nil {
		return nil, err
	}

	recorder := diagnostics.New()
	dir := directory.New(session, cfg.GetZoneCacheTTL(), log)
	msgr := push.New(session, dir, cfg.MQTT, recorder, log)

	return &Client{
		cfg:      cfg,
		log:      log.With("component", "ember"),
		session:  session,
		dir:      dir,
		msgr:     msgr,
		recorder: recorder,
		handles:  make(map[string]string),
		now:      time.Now,
	}, nil
}

// Zones returns the current zone snapshot, registering every zone with
// the push transport so telemetry and commands can flow.
func (c *Client) Zones(ctx context.Context) ([]*zone.Zone, error) {
	zones, err := c.dir.Zones(ctx)
	if err != nil {
		return nil, err
	}
	c.bind(zones)
	return zones, nil
}

// Zone returns one zone by identifier, recovering from a stale handle if
// the identifier has been reassigned since the MAC was last seen.
func (c *Client) Zone(ctx context.Context, id string) (*zone.Zone, error) {
	z, err := c.dir.Zone(ctx, id)
	if err == nil {
		return z, nil
	}
	if !errors.Is(err, directory.ErrZoneNotFound) {
		return nil, err
	}
	return c.relocate(ctx, id, err)
}

// SetTargetTemperature sets the target temperature for a zone, in degrees.
func (c *Client) SetTargetTemperature(ctx context.Context, id string, degrees float64) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		cmd, err := z.TemperatureCommand(zone.FieldTargetTempWrite, degrees)
		if err != nil {
			return nil, err
		}
		return []pointdata.Command{cmd}, nil
	})
}

// SetBoostTemperature sets the boost target temperature for a zone,
// in degrees, without changing the boost state.
func (c *Client) SetBoostTemperature(ctx context.Context, id string, degrees float64) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		cmd, err := z.TemperatureCommand(zone.FieldBoostTemp, degrees)
		if err != nil {
			return nil, err
		}
		return []pointdata.Command{cmd}, nil
	})
}

// SetMode puts a zone into the given operating mode. Modes a family
// cannot represent are reported as zone.ErrUnsupportedMode.
func (c *Client) SetMode(ctx context.Context, id string, mode zone.Mode) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		value, err := z.ModeValue(mode)
		if err != nil {
			return nil, err
		}
		cmd, err := z.Command(zone.FieldMode, value)
		if err != nil {
			return nil, err
		}
		return []pointdata.Command{cmd}, nil
	})
}

// SetAdvance turns the advance override on or off for a zone.
func (c *Client) SetAdvance(ctx context.Context, id string, active bool) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		var value int64
		if active {
			value = 1
		}
		cmd, err := z.Command(zone.FieldAdvanceActive, value)
		if err != nil {
			return nil, err
		}
		return []pointdata.Command{cmd}, nil
	})
}

// ActivateBoost starts a boost override on a zone.
//
// Hours are clamped to the family's maximum: the compact families accept
// a single hour, the original families up to three (both configurable).
// A boostTemperature of 0 leaves the zone's boost setpoint untouched.
func (c *Client) ActivateBoost(ctx context.Context, id string, hours int, boostTemperature float64) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		return c.boostCommands(z, hours, boostTemperature, true)
	})
}

// DeactivateBoost cancels any running boost on a zone.
func (c *Client) DeactivateBoost(ctx context.Context, id string) error {
	return c.withZone(ctx, id, func(z *zone.Zone) ([]pointdata.Command, error) {
		return c.boostCommands(z, 0, 0, false)
	})
}

// boostCommands builds the command bundle for a boost change.
//
// The compact families record the boost end time (now plus the clamped
// duration); the original families record the start time. Deactivation
// sends only the zeroed duration.
func (c *Client) boostCommands(z *zone.Zone, hours int, boostTemperature float64, withTimestamp bool) ([]pointdata.Command, error) {
	maxHours := c.cfg.Policy.BoostMaxHours
	if z.Family.Compact() {
		maxHours = c.cfg.Policy.BoostMaxHoursCompact
	}
	if hours > maxHours {
		hours = maxHours
	}

	hoursCmd, err := z.Command(zone.FieldBoostHours, int64(hours))
	if err != nil {
		return nil, err
	}
	cmds := []pointdata.Command{hoursCmd}

	if boostTemperature > 0 {
		tempCmd, err := z.TemperatureCommand(zone.FieldBoostTemp, boostTemperature)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, tempCmd)
	}

	if withTimestamp {
		at := c.now()
		if z.Family.Compact() {
			at = at.Add(time.Duration(hours) * time.Hour)
		}
		timeCmd, err := z.Command(zone.FieldBoostTime, at.Unix())
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, timeCmd)
	}

	return cmds, nil
}

// StartListening connects the push transport and subscribes to every
// known zone's telemetry.
func (c *Client) StartListening(ctx context.Context) error {
	zones, err := c.Zones(ctx)
	if err != nil {
		return err
	}
	if err := c.msgr.Start(ctx); err != nil {
		return err
	}
	c.msgr.SubscribeZones(zones)
	return nil
}

// StopListening disconnects the push transport. Zone registrations are
// kept, so a later StartListening resumes where it left off.
func (c *Client) StopListening() {
	c.msgr.Stop()
}

// Connected reports whether the push transport is up.
func (c *Client) Connected() bool {
	return c.msgr.Connected()
}

// OnPointData sets a hook invoked after each decoded telemetry update.
func (c *Client) OnPointData(hook push.PointDataHook) {
	c.msgr.OnPointData(hook)
}

// OnMessage sets a hook invoked for every raw push message.
func (c *Client) OnMessage(hook push.MessageHook) {
	c.msgr.OnMessage(hook)
}

// OnLog sets a hook receiving one-line push traffic traces.
func (c *Client) OnLog(hook push.LogHook) {
	c.msgr.OnLog(hook)
}

// Diagnostics returns a snapshot of recent push traffic and the last
// decoded telemetry per device.
func (c *Client) Diagnostics() diagnostics.Snapshot {
	return c.recorder.Snapshot()
}

// Close shuts the client down.
func (c *Client) Close() {
	c.msgr.Stop()
}

// commandBuilder turns a resolved zone handle into the commands to send.
type commandBuilder func(z *zone.Zone) ([]pointdata.Command, error)

// withZone resolves a zone, builds its commands, and sends them, retrying
// exactly once through relocate when either the directory or the
// transport reports the handle stale. A second failure propagates.
func (c *Client) withZone(ctx context.Context, id string, build commandBuilder) error {
	z, err := c.dir.Zone(ctx, id)
	if err == nil {
		err = c.send(ctx, z, build)
		if err == nil {
			return nil
		}
	}

	if !staleHandle(err) {
		return err
	}

	z, rerr := c.relocate(ctx, id, err)
	if rerr != nil {
		return rerr
	}
	return c.send(ctx, z, build)
}

// send builds and publishes the commands for one zone.
func (c *Client) send(ctx context.Context, z *zone.Zone, build commandBuilder) error {
	cmds, err := build(z)
	if err != nil {
		return err
	}
	return c.msgr.Send(ctx, z.MAC, cmds)
}

// staleHandle reports whether an error means the zone handle no longer
// matches the directory or the transport registry.
func staleHandle(err error) bool {
	return errors.Is(err, directory.ErrZoneNotFound) || errors.Is(err, push.ErrUnknownZone)
}

// relocate recovers from a stale zone handle: force a directory refresh,
// find the zone by the MAC the identifier last resolved to, and rebind.
// When no breadcrumb exists or the device is gone, the original error
// propagates.
func (c *Client) relocate(ctx context.Context, id string, cause error) (*zone.Zone, error) {
	c.handleMu.Lock()
	mac, ok := c.handles[id]
	c.handleMu.Unlock()
	if !ok {
		return nil, cause
	}

	c.dir.Invalidate()
	zones, err := c.dir.Zones(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing zones after stale handle: %w", err)
	}
	c.bind(zones)

	z := c.dir.ByMAC(mac)
	if z == nil {
		return nil, cause
	}

	c.handleMu.Lock()
	c.handles[id] = z.MAC
	c.handleMu.Unlock()

	c.log.Info("zone relocated after identifier change", "old_id", id, "new_id", z.ID, "mac", z.MAC)
	return z, nil
}

// bind records the id-to-MAC breadcrumbs for a snapshot and keeps the
// push transport's registry current.
func (c *Client) bind(zones []*zone.Zone) {
	c.handleMu.Lock()
	for _, z := range zones {
		c.handles[z.ID] = z.MAC
	}
	c.handleMu.Unlock()

	c.msgr.SubscribeZones(zones)
}
