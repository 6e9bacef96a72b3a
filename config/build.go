package config

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/render"
	"github.com/theoremus-urban-solutions/fleet-tracks/timeline"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

// Projection calibrates the map from its two pivots.
func (m MapConfig) Projection() (*geomap.Projection, error) {
	if len(m.Pivots) != 2 {
		return nil, fmt.Errorf("%w: map %q needs two pivots", ErrInvalidConfig, m.Name)
	}
	a, b := m.Pivots[0], m.Pivots[1]
	var opts []geomap.Option
	if m.LeapDivisor > 0 {
		opts = append(opts, geomap.WithLeapDivisor(m.LeapDivisor))
	}
	p, err := geomap.Calibrate(
		geomap.GeoPivot{Lat: a.Lat, Lon: a.Lon, X: a.X, Y: a.Y},
		geomap.GeoPivot{Lat: b.Lat, Lon: b.Lon, X: b.X, Y: b.Y},
		m.Width, m.Height, opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", m.Name, err)
	}
	return p, nil
}

// Map looks a map up by name.
func (c *AppConfig) Map(name string) (MapConfig, error) {
	for _, m := range c.Maps {
		if m.Name == name {
			return m, nil
		}
	}
	return MapConfig{}, fmt.Errorf("%w: unknown map %q", ErrInvalidConfig, name)
}

// ColorPalette returns the configured palette, or the default ramp.
func (c *AppConfig) ColorPalette() tracking.Palette {
	if len(c.Palette) == 0 {
		return tracking.DefaultPalette
	}
	p := make(tracking.Palette, len(c.Palette))
	for i, v := range c.Palette {
		p[i] = rgb(v)
	}
	return p
}

// Timing parses the movie range and combines it with the frame cadence.
func (m MovieConfig) Timing() (timeline.Timing, error) {
	start, end, err := utils.ParseTimeRange(m.Start, m.End)
	if err != nil {
		return timeline.Timing{}, err
	}
	t := m.TimingFor(start, end)
	return t, t.Validate()
}

// TimingFor applies the cadence settings to an explicit range.
func (m MovieConfig) TimingFor(start, end time.Time) timeline.Timing {
	return timeline.Timing{
		Start:               start,
		End:                 end,
		SecondsPerFrame:     m.SecondsPerFrame,
		TrackFadingSeconds:  m.TrackFadingSeconds,
		TrackCuttingSeconds: m.TrackCuttingSeconds,
		VideoFramerate:      m.VideoFramerate,
	}
}

// Style converts the drawing section to render settings.
func (d DrawingConfig) Style() render.Style {
	return render.Style{
		PathTransparency:  d.PathTransparency,
		PathThickness:     d.PathThickness,
		PathTailThickness: d.PathTailThickness,
		HeadRadius:        d.HeadRadius,
		HeadThickness:     d.HeadThickness,
	}
}

// Label returns nil when the timer is disabled.
func (t TimerConfig) Label() *render.TimerLabel {
	if !t.Enabled {
		return nil
	}
	l := &render.TimerLabel{
		Format:         t.Format,
		Abs:            t.AbsCoords,
		Relative:       [2]float64{2, 94},
		FontSize:       t.FontSize,
		Color:          rgb(t.Color),
		Background:     rgb(t.BackgroundColor),
		BackgroundSize: t.BackgroundSize,
	}
	if t.RelativeCoords != nil {
		l.Relative = *t.RelativeCoords
	}
	return l
}

// Video returns nil unless the movie should be joined into a video.
func (m MovieConfig) Video() *render.VideoEncoder {
	if !m.RenderVideo {
		return nil
	}
	return &render.VideoEncoder{FFmpeg: m.FFmpeg, Framerate: m.VideoFramerate}
}

func rgb(c [3]uint8) tracking.Color {
	return tracking.Color{R: c[0], G: c[1], B: c[2]}
}
