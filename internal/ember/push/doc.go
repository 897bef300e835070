// Package push implements the MQTT push transport to the Ember cloud.
//
// Zone telemetry arrives on per-device upload topics as JSON envelopes
// carrying base64 point data; commands go out on the matching download
// topics in the same envelope shape. The broker authenticates with the
// REST session token, so the messenger borrows its identity from the
// rest.Session it is constructed with.
//
// Inbound flow:
//
//	broker -> handleMessage -> pointdata.Decode -> directory cache -> hooks
//
// Outbound flow:
//
//	facade -> Send -> pointdata.Encode -> envelope -> broker
//
// Devices are registered by MAC. Commands to unregistered devices fail
// with ErrUnknownZone, which callers can use to detect stale handles.
package push
