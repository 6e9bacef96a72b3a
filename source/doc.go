// Package source reads vehicle position records and loads them into track
// bags.
//
// A Source streams the records of a half-open time range in time order.
// LoadTracks queries a source in fixed chunks (one hour by default),
// projects every record onto a map and returns the filled bag.
//
// Implementations:
//   - SQLSource: a table of (tracker_id, time, lat, lon) rows over database/sql
//   - ArchiveSource: GTFS-Realtime snapshots written by the recorder
//   - GPXSource: a directory of GPX files, one entity per file
//   - BreakerSource: a circuit breaker around another source
package source
