package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nerrad567/ember-core/internal/diagnostics"
	"github.com/nerrad567/ember-core/internal/ember/pointdata"
	"github.com/nerrad567/ember-core/internal/ember/rest"
	"github.com/nerrad567/ember-core/internal/ember/zone"
	"github.com/nerrad567/ember-core/internal/infrastructure/config"
	"github.com/nerrad567/ember-core/internal/infrastructure/logging"
	"github.com/nerrad567/ember-core/internal/infrastructure/mqtt"
)

// serialNumber is the fixed protocol serial the cloud expects in every
// command envelope.
const serialNumber = 7870

// CredentialSource supplies the identity the broker authenticates with.
// Satisfied by rest.Session.
type CredentialSource interface {
	MessagingCredentials(ctx context.Context) (rest.Credentials, error)
}

// PointSink receives decoded telemetry for a device. Satisfied by
// directory.Directory.
type PointSink interface {
	ApplyPointData(mac string, points map[int]int64) bool
}

// PointDataHook is called after decoded telemetry has been applied.
type PointDataHook func(mac string, points map[int]int64)

// MessageHook is called for every raw inbound message, before decoding.
type MessageHook func(topic string, payload []byte)

// LogHook receives one-line traffic traces ("SEND topic", "RECV topic",
// "INFO ...") for external diagnostics consumers.
type LogHook func(line string)

// registration is the per-device addressing the messenger needs to build
// topics and envelopes.
type registration struct {
	mac       string
	productID string
	uid       string
}

// Messenger is the push transport: it maintains the broker connection,
// routes inbound telemetry into the zone cache, and publishes commands.
//
// Devices must be registered before telemetry is subscribed or commands
// sent. Registrations are keyed by MAC and survive connection restarts,
// so a reconnect resubscribes everything.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Messenger struct {
	creds    CredentialSource
	sink     PointSink
	recorder *diagnostics.Recorder
	cfg      config.MQTTConfig
	log      *logging.Logger

	mu     sync.Mutex
	client *mqtt.Client
	zones  map[string]registration

	hookMu      sync.RWMutex
	onPointData PointDataHook
	onMessage   MessageHook
	onLog       LogHook

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// commonBlock and dataBlock form the JSON envelope both directions share.
type commonBlock struct {
	Serial    int    `json:"serial"`
	ProductID string `json:"productId"`
	UID       string `json:"uid"`
	Timestamp string `json:"timestamp"`
}

type dataBlock struct {
	MAC       string `json:"mac"`
	PointData string `json:"pointData"`
}

type messageEnvelope struct {
	Common commonBlock `json:"common"`
	Data   dataBlock   `json:"data"`
}

// New creates a Messenger. It does not connect; call Start.
func New(creds CredentialSource, sink PointSink, cfg config.MQTTConfig, recorder *diagnostics.Recorder, log *logging.Logger) *Messenger {
	return &Messenger{
		creds:    creds,
		sink:     sink,
		recorder: recorder,
		cfg:      cfg,
		log:      log.With("component", "push"),
		zones:    make(map[string]registration),
		now:      time.Now,
	}
}

// Start connects to the broker and subscribes to every registered device.
//
// The broker authenticates with the REST session identity: the client id
// is "{userID}_{unix ms}" so concurrent sessions never collide, the
// username is "app/{token}" and the password the token itself. Starting
// an already-started messenger is a no-op.
func (m *Messenger) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return nil
	}

	creds, err := m.creds.MessagingCredentials(ctx)
	if err != nil {
		return fmt.Errorf("fetching messaging credentials: %w", err)
	}

	clientID := fmt.Sprintf("%s_%d", creds.UserID, m.now().UnixMilli())
	username := "app/" + creds.Token

	client, err := mqtt.Connect(m.cfg, clientID, username, creds.Token)
	if err != nil {
		return err
	}
	client.SetLogger(m.log)
	client.SetOnDisconnect(func(err error) {
		m.log.Warn("push broker connection lost", "error", err)
	})

	m.client = client

	for _, reg := range m.zones {
		if err := m.subscribeLocked(reg); err != nil {
			m.log.Warn("initial subscribe failed", "mac", reg.mac, "error", err)
		}
	}

	m.log.Info("push transport started", "client_id", clientID, "zones", len(m.zones))
	m.trace("INFO connected as %s", clientID)
	return nil
}

// Stop disconnects from the broker. Registrations are retained so a later
// Start resubscribes the same devices. Stopping a stopped messenger is a
// no-op.
func (m *Messenger) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return
	}
	if err := m.client.Close(); err != nil {
		m.log.Warn("push transport close", "error", err)
	}
	m.client = nil
	m.log.Info("push transport stopped")
}

// Connected reports whether the broker connection is up.
func (m *Messenger) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil && m.client.IsConnected()
}

// SubscribeZone registers a device and, when connected, subscribes to its
// telemetry topic. Re-registering an already-known device is harmless.
func (m *Messenger) SubscribeZone(z *zone.Zone) error {
	reg := registration{mac: z.MAC, productID: z.ProductID, uid: z.UID}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.zones[reg.mac] = reg
	if m.client == nil {
		return nil
	}
	return m.subscribeLocked(reg)
}

// SubscribeZones registers and subscribes a batch of devices, returning
// the number registered without error.
func (m *Messenger) SubscribeZones(zones []*zone.Zone) int {
	count := 0
	for _, z := range zones {
		if err := m.SubscribeZone(z); err != nil {
			m.log.Warn("zone subscribe failed", "zone", z.Name, "error", err)
			continue
		}
		count++
	}
	return count
}

// subscribeLocked subscribes to a device's upload topic. Caller holds m.mu
// and has checked m.client is non-nil.
func (m *Messenger) subscribeLocked(reg registration) error {
	topic := uploadTopic(reg)
	if m.client.HasSubscription(topic) {
		return nil
	}
	return m.client.Subscribe(topic, byte(m.cfg.QoS), m.handleMessage)
}

// Send encodes the commands and publishes them to the device's command
// topic, waiting briefly for broker acknowledgment.
//
// The device is addressed by MAC and must have been registered via
// SubscribeZone; an unregistered MAC is reported as ErrUnknownZone, which
// the facade treats as a stale handle.
func (m *Messenger) Send(ctx context.Context, mac string, commands []pointdata.Command) error {
	m.mu.Lock()
	client := m.client
	reg, known := m.zones[mac]
	m.mu.Unlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownZone, mac)
	}
	if client == nil {
		return ErrNotRunning
	}

	encoded, err := pointdata.Encode(commands)
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}

	env := messageEnvelope{
		Common: commonBlock{
			Serial:    serialNumber,
			ProductID: reg.productID,
			UID:       reg.uid,
			Timestamp: strconv.FormatInt(m.now().UnixMilli(), 10),
		},
		Data: dataBlock{
			MAC:       reg.mac,
			PointData: encoded,
		},
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding command envelope: %w", err)
	}

	topic := downloadTopic(reg)
	if err := client.Publish(topic, payload, byte(m.cfg.QoS), m.cfg.GetPublishTimeout()); err != nil {
		return err
	}

	m.recorder.RecordSent(topic, payload)
	m.trace("SEND %s %s", topic, payload)
	m.log.Debug("command published", "mac", mac, "commands", len(commands))
	return nil
}

// OnPointData sets a hook invoked after each decoded telemetry update.
func (m *Messenger) OnPointData(hook PointDataHook) {
	m.hookMu.Lock()
	m.onPointData = hook
	m.hookMu.Unlock()
}

// OnMessage sets a hook invoked for every raw inbound message.
func (m *Messenger) OnMessage(hook MessageHook) {
	m.hookMu.Lock()
	m.onMessage = hook
	m.hookMu.Unlock()
}

// OnLog sets a hook receiving one-line traffic traces.
func (m *Messenger) OnLog(hook LogHook) {
	m.hookMu.Lock()
	m.onLog = hook
	m.hookMu.Unlock()
}

// trace emits a line to the log hook, if one is set.
func (m *Messenger) trace(format string, args ...any) {
	m.hookMu.RLock()
	hook := m.onLog
	m.hookMu.RUnlock()
	if hook != nil {
		hook(fmt.Sprintf(format, args...))
	}
}

// handleMessage processes one inbound broker message: record it, strip
// the NUL padding some gateways append, decode the telemetry, and merge
// it into the zone cache.
func (m *Messenger) handleMessage(topic string, payload []byte) error {
	payload = bytes.TrimRight(payload, "\x00")
	m.recorder.RecordReceived(topic, payload)
	m.trace("RECV %s %s", topic, payload)

	m.hookMu.RLock()
	onMessage := m.onMessage
	onPointData := m.onPointData
	m.hookMu.RUnlock()

	if onMessage != nil {
		onMessage(topic, payload)
	}

	var env messageEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decoding push envelope: %w", err)
	}
	if env.Data.MAC == "" || env.Data.PointData == "" {
		return nil
	}

	entries, err := pointdata.Decode(env.Data.PointData)
	if err != nil {
		return fmt.Errorf("decoding telemetry for %s: %w", env.Data.MAC, err)
	}

	points := make(map[int]int64, len(entries))
	for index, entry := range entries {
		points[index] = entry.Value
	}

	m.recorder.RecordPointData(env.Data.MAC, points)
	m.sink.ApplyPointData(env.Data.MAC, points)

	if onPointData != nil {
		onPointData(env.Data.MAC, points)
	}
	return nil
}

func uploadTopic(reg registration) string {
	return reg.productID + "/" + reg.uid + "/upload/pointdata"
}

func downloadTopic(reg registration) string {
	return reg.productID + "/" + reg.uid + "/download/pointdata"
}
