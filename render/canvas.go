package render

import (
	"image"
	"image/draw"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

// Canvas is the surface a frame is drawn on.
type Canvas interface {
	// Polyline strokes an open line through points; fewer than two points
	// draw nothing.
	Polyline(points []geomap.Pixel, c tracking.Color, thickness float64)
	// Circle strokes a circle outline, or fills it when thickness <= 0.
	Circle(center geomap.Pixel, radius float64, c tracking.Color, thickness float64)
	// FillRect fills the rectangle spanned by two corners.
	FillRect(a, b geomap.Pixel, c tracking.Color)
	// Text draws s with its baseline starting at p.
	Text(s string, p geomap.Pixel, c tracking.Color)
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func fontFace(size float64) (font.Face, error) {
	fontOnce.Do(func() { goFont, fontErr = truetype.Parse(goregular.TTF) })
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(goFont, &truetype.Options{Size: size}), nil
}

// GGCanvas draws on an RGBA image with gg.
type GGCanvas struct {
	dc *gg.Context
}

// NewGGCanvas draws on a copy of img; fontSize sets the text face.
func NewGGCanvas(img image.Image, fontSize float64) (*GGCanvas, error) {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	dc := gg.NewContextForRGBA(dst)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	if fontSize > 0 {
		face, err := fontFace(fontSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
	}
	return &GGCanvas{dc: dc}, nil
}

func (g *GGCanvas) Polyline(points []geomap.Pixel, c tracking.Color, thickness float64) {
	if len(points) < 2 {
		return
	}
	g.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	g.dc.SetLineWidth(thickness)
	g.dc.MoveTo(float64(points[0].X), float64(points[0].Y))
	for _, p := range points[1:] {
		g.dc.LineTo(float64(p.X), float64(p.Y))
	}
	g.dc.Stroke()
}

func (g *GGCanvas) Circle(center geomap.Pixel, radius float64, c tracking.Color, thickness float64) {
	g.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	g.dc.DrawCircle(float64(center.X), float64(center.Y), radius)
	if thickness <= 0 {
		g.dc.Fill()
		return
	}
	g.dc.SetLineWidth(thickness)
	g.dc.Stroke()
}

func (g *GGCanvas) FillRect(a, b geomap.Pixel, c tracking.Color) {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	g.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	g.dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0), float64(y1-y0))
	g.dc.Fill()
}

func (g *GGCanvas) Text(s string, p geomap.Pixel, c tracking.Color) {
	g.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	g.dc.DrawString(s, float64(p.X), float64(p.Y))
}

// Image returns the drawn image.
func (g *GGCanvas) Image() *image.RGBA {
	return g.dc.Image().(*image.RGBA)
}
