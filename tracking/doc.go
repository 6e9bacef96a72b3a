// Package tracking holds the per-entity track model.
//
// This package handles:
// - Collecting canvas-space points per entity into ordered tracks
// - Assigning each track a display color derived from its entity id
// - Freezing the collection once loading completes so it can be shared
//
// A TrackBag is built once per rendering or request session: points are added
// in ascending time order, Colorize is called exactly once, and from then on
// the bag is read-only and safe to share across goroutines.
package tracking
