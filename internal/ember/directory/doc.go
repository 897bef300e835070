// Package directory maintains the cached home/zone/schedule topology.
//
// The directory is the single owner of zone objects. It rebuilds them
// wholesale on every REST refresh (bounded by a short TTL cache) and lets
// the push transport mutate individual point entries in between, so both
// update paths converge on one view of each zone.
package directory
