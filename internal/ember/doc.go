// Package ember is the facade over the Ember cloud protocol stack.
//
// It wires the REST session, the zone directory, and the MQTT push
// transport into a single Client:
//
//	Client
//	  ├── rest.Session        authentication, token refresh, REST calls
//	  ├── directory.Directory cached home/zone/schedule topology
//	  └── push.Messenger      telemetry in, commands out
//
// Consumers read zone state through the zone package's semantic view and
// issue writes through the Client's command methods. Zone identifiers
// can be reassigned server-side at any time; the Client transparently
// relocates a zone by its MAC and retries a failed operation once before
// surfacing the error.
package ember
