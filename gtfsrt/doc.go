// Package gtfsrt fetches, decodes and archives GTFS-Realtime vehicle
// position feeds.
//
// A Recorder polls a VehiclePositions endpoint and writes every snapshot to
// an archive directory as raw protobuf. DecodePositions turns a snapshot
// into flat vehicle positions that the record sources replay later.
package gtfsrt
