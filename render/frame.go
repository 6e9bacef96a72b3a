package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/segment"
	"github.com/theoremus-urban-solutions/fleet-tracks/timeline"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

var ErrNotColorized = errors.New("track bag must be colorized before rendering")

// Style holds the stroke settings of tracks.
type Style struct {
	PathTransparency  float64
	PathThickness     float64
	PathTailThickness float64
	HeadRadius        float64
	HeadThickness     float64
}

// DefaultStyle matches the stock drawing configuration.
var DefaultStyle = Style{
	PathTransparency:  0.6,
	PathThickness:     2,
	PathTailThickness: 1,
	HeadRadius:        3,
	HeadThickness:     1,
}

// FrameRenderer draws frames of a frozen track bag. It is safe for
// concurrent use: every call works on its own copy of the base map.
type FrameRenderer struct {
	base   image.Image
	proj   *geomap.Projection
	bag    *tracking.TrackBag
	ids    []int64
	timing timeline.Timing
	style  Style
	label  *TimerLabel
}

// NewFrameRenderer checks the bag is colorized. label may be nil.
func NewFrameRenderer(base image.Image, proj *geomap.Projection, bag *tracking.TrackBag, timing timeline.Timing, style Style, label *TimerLabel) (*FrameRenderer, error) {
	if !bag.Frozen() {
		return nil, ErrNotColorized
	}
	return &FrameRenderer{
		base:   base,
		proj:   proj,
		bag:    bag,
		ids:    bag.IDs(),
		timing: timing,
		style:  style,
		label:  label,
	}, nil
}

// DrawTracks draws every track visible at instant at onto c, in entity id
// order, and returns how many were drawn.
func (r *FrameRenderer) DrawTracks(c Canvas, at time.Time) int {
	drawn := 0
	for _, id := range r.ids {
		track := r.bag.Track(id)
		v, ok := r.timing.WindowAt(track, at)
		if !ok {
			continue
		}
		if len(v.Tail) == 0 && len(v.Body) == 0 {
			continue
		}
		for _, run := range segment.Split(v.Tail, r.proj) {
			c.Polyline(run, track.Color, r.style.PathTailThickness)
		}
		for _, run := range segment.Split(v.Body, r.proj) {
			c.Polyline(run, track.Color, r.style.PathThickness)
		}
		if v.HasHead() {
			c.Circle(v.Head(), r.style.HeadRadius, track.Color, r.style.HeadThickness)
		}
		drawn++
	}
	return drawn
}

// Render composes the frame at instant at.
func (r *FrameRenderer) Render(at time.Time) (*image.RGBA, error) {
	fontSize := 0.0
	if r.label != nil {
		fontSize = r.label.FontSize
	}
	overlay, err := NewGGCanvas(r.base, 0)
	if err != nil {
		return nil, err
	}
	r.DrawTracks(overlay, at)

	merged, err := NewGGCanvas(Blend(r.base, overlay.Image(), r.style.PathTransparency), fontSize)
	if err != nil {
		return nil, err
	}
	if r.label != nil {
		b := r.base.Bounds()
		r.label.Draw(merged, at, b.Dx(), b.Dy())
	}
	return merged.Image(), nil
}

// Blend returns base mixed with overlay at weight alpha, so that
// out = overlay*alpha + base*(1-alpha) for every pixel.
func Blend(base, overlay image.Image, alpha float64) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, base, b.Min, draw.Src)
	if alpha <= 0 {
		return out
	}
	if alpha > 1 {
		alpha = 1
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(out, b, overlay, overlay.Bounds().Min, mask, image.Point{}, draw.Over)
	return out
}
