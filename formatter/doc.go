// Package formatter serializes a track bag for remote rendering clients.
//
// This package is organized into:
// - text.go: the canonical delta-minute text encoding
// - wrapper.go: the time-range prefix that turns an encoded body into a payload
// - json.go: the structured list-of-lists alternate encoding
//
// Wire grammar of the text payload:
//
//	payload = prefix track*
//	prefix  = epoch-start "," epoch-end "," min-start "," min-end ","
//	track   = entity-id "," point+ "#"
//	point   = delta-minutes "," x "," y ","
//
// A point triplet "<delta>,0,0," placed before a real point marks a break in
// the track: the client must not join the points around it with a line.
// Tracks are emitted in ascending entity id order so equal bags encode to
// equal bytes.
package formatter
