// Package timeline derives what each track shows at each frame of a movie.
//
// A movie covers [Start, End] in frames of SecondsPerFrame. At frame instant
// T a track is split into two trailing windows:
//
//   - body: points in [T-TrackFadingSeconds, T], drawn solid
//   - tail: points in [T-TrackCuttingSeconds, T-TrackFadingSeconds), drawn thin
//
// Points after T are not shown yet and points before the tail window are gone.
// Every frame is a pure function of its instant and a frozen track bag, so
// frames may be computed concurrently.
package timeline
