package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteZoneSample writes one heating-zone telemetry sample.
//
// This is the primary method for recording zone state over time.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - zoneID: Server-side zone identifier
//   - zoneName: User-visible zone name (tag, low cardinality)
//   - fields: Sample values (e.g., "current_temp", "target_temp", "boiler_on")
//
// Example:
//
//	client.WriteZoneSample("1001", "Living Room", map[string]interface{}{
//	    "current_temp": 19.5,
//	    "target_temp":  21.0,
//	    "boiler_on":    true,
//	})
func (c *Client) WriteZoneSample(zoneID, zoneName string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"zone_state",
		map[string]string{
			"zone_id":   zoneID,
			"zone_name": zoneName,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now", such as samples stamped with
// the zone clock reported by the cloud.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
