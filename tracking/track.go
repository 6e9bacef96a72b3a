package tracking

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
)

var (
	// ErrFrozen is returned when a bag is modified after Colorize.
	ErrFrozen = errors.New("track bag is frozen")
	// ErrAlreadyColorized is returned by a second Colorize call.
	ErrAlreadyColorized = errors.New("track bag already colorized")
)

// TrackPoint is a canvas position at a UTC instant.
type TrackPoint struct {
	X    float64
	Y    float64
	Time time.Time
}

// Pixel returns the point rounded to integer canvas coordinates.
func (p TrackPoint) Pixel() geomap.Pixel {
	return geomap.Round(p.X, p.Y)
}

// Track is the ordered point sequence of one entity.
type Track struct {
	Points []TrackPoint
	Color  Color
}

func (t *Track) First() TrackPoint { return t.Points[0] }
func (t *Track) Last() TrackPoint  { return t.Points[len(t.Points)-1] }
func (t *Track) Len() int          { return len(t.Points) }

// TrackBag maps entity ids to their tracks.
type TrackBag struct {
	tracks    map[int64]*Track
	colorized bool
}

func NewTrackBag() *TrackBag {
	return &TrackBag{tracks: map[int64]*Track{}}
}

// AddPoint appends p to the track of entity id, creating it on first use.
// Time ordering is the caller's responsibility.
func (b *TrackBag) AddPoint(id int64, p TrackPoint) error {
	if b.colorized {
		return ErrFrozen
	}
	t := b.tracks[id]
	if t == nil {
		t = &Track{Color: DefaultTrackColor}
		b.tracks[id] = t
	}
	t.Points = append(t.Points, p)
	return nil
}

// EnsureOrdered stable-sorts every track whose points are out of time order
// and returns the number of tracks it had to sort.
func (b *TrackBag) EnsureOrdered() (int, error) {
	if b.colorized {
		return 0, ErrFrozen
	}
	sorted := 0
	for _, t := range b.tracks {
		if isOrdered(t.Points) {
			continue
		}
		sort.SliceStable(t.Points, func(i, j int) bool {
			return t.Points[i].Time.Before(t.Points[j].Time)
		})
		sorted++
	}
	return sorted, nil
}

func isOrdered(points []TrackPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			return false
		}
	}
	return true
}

// Colorize assigns each track its palette color and freezes the bag.
func (b *TrackBag) Colorize(p Palette) error {
	if b.colorized {
		return ErrAlreadyColorized
	}
	if len(p) == 0 {
		return fmt.Errorf("colorize: %w", ErrEmptyPalette)
	}
	for id, t := range b.tracks {
		t.Color = p.Color(id)
	}
	b.colorized = true
	return nil
}

// Frozen reports whether Colorize has run.
func (b *TrackBag) Frozen() bool { return b.colorized }

// Track returns the track of entity id, or nil.
func (b *TrackBag) Track(id int64) *Track { return b.tracks[id] }

// IDs returns all entity ids in ascending order.
func (b *TrackBag) IDs() []int64 {
	ids := make([]int64, 0, len(b.tracks))
	for id := range b.tracks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of tracks.
func (b *TrackBag) Len() int { return len(b.tracks) }

// PointCount returns the total number of points across all tracks.
func (b *TrackBag) PointCount() int {
	n := 0
	for _, t := range b.tracks {
		n += len(t.Points)
	}
	return n
}
