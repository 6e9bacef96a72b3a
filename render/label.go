package render

import (
	"math"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

const labelPadding = 5

var labelLayouts = map[string]string{
	"minute": "2006/01/02 15:04",
	"hour":   "2006/01/02 15:00",
}

// TimerLabel stamps the frame instant onto a frame.
type TimerLabel struct {
	// Format is "minute" or "hour".
	Format string
	// Abs, when set, is the label anchor in pixels. Otherwise Relative holds
	// the anchor as percentages of the canvas size.
	Abs            *[2]int
	Relative       [2]float64
	FontSize       float64
	Color          tracking.Color
	Background     tracking.Color
	BackgroundSize [2]int
}

// Text formats t in UTC.
func (l TimerLabel) Text(t time.Time) string {
	layout, ok := labelLayouts[l.Format]
	if !ok {
		layout = labelLayouts["minute"]
	}
	return t.UTC().Format(layout)
}

// Anchor returns the bottom-left corner of the label on a w x h canvas.
func (l TimerLabel) Anchor(w, h int) geomap.Pixel {
	if l.Abs != nil {
		return geomap.Pixel{X: l.Abs[0], Y: l.Abs[1]}
	}
	return geomap.Pixel{
		X: int(math.RoundToEven(float64(w) * l.Relative[0] / 100)),
		Y: int(math.RoundToEven(float64(h) * l.Relative[1] / 100)),
	}
}

// Draw paints the background box, when sized, and the timestamp.
func (l TimerLabel) Draw(c Canvas, t time.Time, w, h int) {
	p := l.Anchor(w, h)
	if l.BackgroundSize[0] > 0 {
		c.FillRect(
			geomap.Pixel{X: p.X - labelPadding, Y: p.Y + labelPadding},
			geomap.Pixel{X: p.X + l.BackgroundSize[0], Y: p.Y - l.BackgroundSize[1]},
			l.Background,
		)
	}
	c.Text(l.Text(t), geomap.Pixel{X: p.X, Y: p.Y - labelPadding*2}, l.Color)
}
