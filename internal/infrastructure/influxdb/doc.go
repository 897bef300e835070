// Package influxdb provides the optional time-series sink for zone telemetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, sample writing, and health monitoring.
//
// # Purpose
//
// The daemon samples every zone on its poll interval and records the
// semantic state (temperatures, boiler activity, boost) so heating
// behaviour can be charted over time. The sink is disabled by default;
// nothing else in the system depends on it.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "embercore",
//	    Bucket:  "heating",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteZoneSample("1001", "Living Room", fields)
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
package influxdb
