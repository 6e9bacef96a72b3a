package tracking

import (
	"errors"
	"image/color"
)

var ErrEmptyPalette = errors.New("palette has no colors")

// Color is an RGB triple.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// RGBA returns the opaque color.RGBA for c.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// DefaultTrackColor is used until a bag is colorized.
var DefaultTrackColor = Color{R: 60, G: 20, B: 20}

// Palette is an ordered list of track colors.
type Palette []Color

// Color maps an entity id onto the palette. Negative ids wrap as well.
func (p Palette) Color(id int64) Color {
	n := int64(len(p))
	i := id % n
	if i < 0 {
		i += n
	}
	return p[i]
}

// DefaultPalette runs from blue through green to red.
var DefaultPalette = Palette{
	{R: 20, G: 20, B: 180},
	{R: 20, G: 60, B: 120},
	{R: 20, G: 100, B: 80},
	{R: 20, G: 140, B: 40},
	{R: 20, G: 180, B: 20},
	{R: 60, G: 140, B: 20},
	{R: 100, G: 100, B: 20},
	{R: 140, G: 60, B: 20},
	{R: 180, G: 20, B: 20},
}
