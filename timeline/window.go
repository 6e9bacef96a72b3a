package timeline

import (
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

// Class is the visibility of one point at one frame.
type Class int

const (
	Expired Class = iota
	Tail
	Body
	Future
)

func (c Class) String() string {
	switch c {
	case Tail:
		return "tail"
	case Body:
		return "body"
	case Future:
		return "future"
	default:
		return "expired"
	}
}

// Classify places a point time relative to a frame at `at` whose tail and
// body windows start at tailStart and bodyStart.
func Classify(t, at, tailStart, bodyStart time.Time) Class {
	switch {
	case t.After(at):
		return Future
	case !t.Before(bodyStart):
		return Body
	case !t.Before(tailStart):
		return Tail
	default:
		return Expired
	}
}

// Visible is what one track shows at one frame.
type Visible struct {
	Tail []geomap.Pixel
	Body []geomap.Pixel
}

// HasHead reports whether the entity moved within the body window, which is
// when a head marker is drawn at the last body point.
func (v Visible) HasHead() bool {
	n := len(v.Body)
	return n > 1 && v.Body[0] != v.Body[n-1]
}

// Head returns the last body point.
func (v Visible) Head() geomap.Pixel {
	return v.Body[len(v.Body)-1]
}

// Window computes the visible part of track at instant at. ok is false when
// the track has expired or not started yet.
//
// The scan relies on the track being in time order and stops at the first
// future point.
func Window(track *tracking.Track, at time.Time, tailCutoff, fadeCutoff time.Duration) (v Visible, ok bool) {
	if track == nil || track.Len() == 0 {
		return Visible{}, false
	}
	tailStart := at.Add(-tailCutoff)
	bodyStart := at.Add(-fadeCutoff)
	if track.Last().Time.Before(tailStart) || track.First().Time.After(at) {
		return Visible{}, false
	}

	for _, p := range track.Points {
		switch Classify(p.Time, at, tailStart, bodyStart) {
		case Future:
			return v, true
		case Body:
			v.Body = append(v.Body, p.Pixel())
		case Tail:
			v.Tail = append(v.Tail, p.Pixel())
		}
	}
	return v, true
}

// WindowAt is Window with the cutoffs taken from t.
func (t Timing) WindowAt(track *tracking.Track, at time.Time) (Visible, bool) {
	return Window(track, at, t.TailCutoff(), t.FadeCutoff())
}
