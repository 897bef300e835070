package mqtt

import (
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified topic and waits for publish
// acknowledgment up to the given timeout.
//
// Commands to zones are best-effort: an unacknowledged publish within the
// window is reported as an error and the caller decides how to react; no
// retry happens here.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "{productId}/{uid}/download/pointdata")
//   - payload: The message payload (JSON envelope, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - timeout: How long to wait for acknowledgment
//
// Returns:
//   - error: nil if the publish was acknowledged within the window
func (c *Client) Publish(topic string, payload []byte, qos byte, timeout time.Duration) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
