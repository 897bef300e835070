// Package diagnostics keeps bounded histories of push-transport traffic.
//
// The cloud's push broker gives no visibility into what was actually
// exchanged, so the messenger feeds every inbound and outbound message
// through a Recorder. The Recorder retains the last few messages in each
// direction plus the most recent decoded point data per device, available
// as a consistent Snapshot for logging or a future debug surface.
package diagnostics
