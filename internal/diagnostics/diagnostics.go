package diagnostics

import (
	"sync"
	"time"
)

// historyDepth is how many messages each direction retains.
// Old entries are discarded as new ones arrive.
const historyDepth = 5

// Message is one recorded push-transport exchange.
type Message struct {
	// At is when the message was recorded.
	At time.Time

	// Topic is the broker topic the message moved on.
	Topic string

	// Payload is the raw message body.
	Payload []byte
}

// Recorder keeps a bounded history of recent push traffic plus the last
// raw point data seen per device, for troubleshooting connectivity and
// codec issues without a debugger attached to the broker.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	sent     ring
	received ring

	// lastPointData maps device MAC to the most recent decoded point set.
	lastPointData map[string]map[int]int64
}

// ring is a fixed-capacity circular buffer of messages.
type ring struct {
	buf   [historyDepth]Message
	next  int
	count int
}

func (r *ring) add(m Message) {
	r.buf[r.next] = m
	r.next = (r.next + 1) % historyDepth
	if r.count < historyDepth {
		r.count++
	}
}

// snapshot returns the buffered messages oldest first.
func (r *ring) snapshot() []Message {
	out := make([]Message, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += historyDepth
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%historyDepth])
	}
	return out
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{
		lastPointData: make(map[string]map[int]int64),
	}
}

// RecordSent notes an outbound message.
func (r *Recorder) RecordSent(topic string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent.add(Message{At: time.Now(), Topic: topic, Payload: payload})
}

// RecordReceived notes an inbound message.
func (r *Recorder) RecordReceived(topic string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received.add(Message{At: time.Now(), Topic: topic, Payload: payload})
}

// RecordPointData stores the latest decoded point set for a device.
// The map is copied, so callers may reuse theirs.
func (r *Recorder) RecordPointData(mac string, points map[int]int64) {
	copied := make(map[int]int64, len(points))
	for k, v := range points {
		copied[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPointData[mac] = copied
}

// Snapshot is a point-in-time copy of the recorder's state.
type Snapshot struct {
	Sent          []Message
	Received      []Message
	LastPointData map[string]map[int]int64
}

// Snapshot returns a consistent copy of the recent traffic history and
// per-device point caches.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := make(map[string]map[int]int64, len(r.lastPointData))
	for mac, pd := range r.lastPointData {
		copied := make(map[int]int64, len(pd))
		for k, v := range pd {
			copied[k] = v
		}
		points[mac] = copied
	}

	return Snapshot{
		Sent:          r.sent.snapshot(),
		Received:      r.received.snapshot(),
		LastPointData: points,
	}
}
