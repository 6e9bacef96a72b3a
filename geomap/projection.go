package geomap

import (
	"errors"
	"fmt"
	"math"
)

// DefaultLeapDivisor sets the leap threshold to 1/30 of the smaller canvas side.
const DefaultLeapDivisor = 30.0

// ErrDegenerateCalibration is returned when two pivots share a projected axis.
var ErrDegenerateCalibration = errors.New("degenerate calibration")

// GeoPivot pairs a geographic coordinate with its pixel on the map image.
type GeoPivot struct {
	Lat float64
	Lon float64
	X   int
	Y   int
}

// Pixel is an integer canvas position.
type Pixel struct {
	X int
	Y int
}

// Projection converts geographic coordinates to canvas pixels.
type Projection struct {
	width  int
	height int
	pivots [2]GeoPivot

	kx, ky    float64
	left, top float64

	leapDistSq float64
}

// Option tunes a Projection at construction.
type Option func(*options)

type options struct {
	leapDivisor float64
}

// WithLeapDivisor overrides the fraction of the smaller canvas side used as
// the leap distance. Non-positive values are ignored.
func WithLeapDivisor(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.leapDivisor = d
		}
	}
}

// Calibrate builds a Projection from two pivots on a w×h canvas.
func Calibrate(a, b GeoPivot, w, h int, opts ...Option) (*Projection, error) {
	o := options{leapDivisor: DefaultLeapDivisor}
	for _, fn := range opts {
		fn(&o)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas %dx%d: %w", w, h, ErrDegenerateCalibration)
	}

	ax, ay := mercator(a.Lat, a.Lon)
	bx, by := mercator(b.Lat, b.Lon)
	if ax == bx || ay == by {
		return nil, fmt.Errorf("pivots (%g,%g) and (%g,%g): %w", a.Lat, a.Lon, b.Lat, b.Lon, ErrDegenerateCalibration)
	}

	p := &Projection{
		width:  w,
		height: h,
		pivots: [2]GeoPivot{a, b},
	}
	p.kx = float64(b.X-a.X) / (bx - ax)
	p.ky = float64(b.Y-a.Y) / (by - ay)
	if p.kx == 0 || p.ky == 0 {
		return nil, fmt.Errorf("pivots map to the same pixel row or column: %w", ErrDegenerateCalibration)
	}
	p.left = float64(a.X) - ax*p.kx
	p.top = float64(a.Y) - ay*p.ky

	side := float64(min(w, h)) / o.leapDivisor
	p.leapDistSq = side * side
	return p, nil
}

// GeoToCanvas returns the (unrounded) canvas position of lat/lon.
func (p *Projection) GeoToCanvas(lat, lon float64) (float64, float64) {
	rx, ry := mercator(lat, lon)
	return rx*p.kx + p.left, ry*p.ky + p.top
}

// IsLeap reports whether two consecutive positions are too far apart to be
// joined by a line.
func (p *Projection) IsLeap(a, b Pixel) bool {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return dx*dx+dy*dy > p.leapDistSq
}

// Width is the canvas width in pixels.
func (p *Projection) Width() int { return p.width }

// Height is the canvas height in pixels.
func (p *Projection) Height() int { return p.height }

// LeapDistSq is the squared pixel distance above which IsLeap reports a leap.
func (p *Projection) LeapDistSq() float64 { return p.leapDistSq }

// Pivots returns the two calibration anchors.
func (p *Projection) Pivots() [2]GeoPivot { return p.pivots }

// mercator returns Web-Mercator coordinates normalized to the unit square.
func mercator(lat, lon float64) (float64, float64) {
	x := (lon + 180) / 360
	latRad := lat * math.Pi / 180
	n := math.Log(math.Tan(math.Pi/4 + latRad/2))
	y := 0.5 - n/(2*math.Pi)
	return x, y
}

// Round converts canvas floats to a Pixel, rounding halves to even.
func Round(x, y float64) Pixel {
	return Pixel{X: int(math.RoundToEven(x)), Y: int(math.RoundToEven(y))}
}
