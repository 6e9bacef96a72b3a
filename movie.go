package fleettracks

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/render"
	"github.com/theoremus-urban-solutions/fleet-tracks/source"
	"github.com/theoremus-urban-solutions/fleet-tracks/timeline"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

// MovieOperator films one movie: load, colorize, render every frame, then
// optionally encode the video.
type MovieOperator struct {
	Source     source.Source
	Projection *geomap.Projection
	BaseMap    image.Image
	Timing     timeline.Timing
	Palette    tracking.Palette
	Style      render.Style
	Label      *render.TimerLabel
	OutputDir  string
	Workers    int
	Chunk      time.Duration
	// Video is nil when frames are not joined into a video.
	Video *render.VideoEncoder
	// Progress shows a progress bar on stderr while filming.
	Progress bool
}

// MovieResult describes a finished run.
type MovieResult struct {
	FramesDir string
	Frames    int
	Tracks    int
	Points    int
	Video     string
}

// Shot runs the whole movie into a fresh run directory.
func (m *MovieOperator) Shot(ctx context.Context) (*MovieResult, error) {
	if err := m.Timing.Validate(); err != nil {
		return nil, err
	}
	log := internal.Logger()

	bag, err := source.LoadTracks(ctx, m.Source, m.Projection, m.Timing.Start, m.Timing.End, source.WithChunk(m.Chunk))
	if err != nil {
		return nil, err
	}
	RecordsLoaded.WithLabelValues("movie").Add(float64(bag.PointCount()))
	palette := m.Palette
	if len(palette) == 0 {
		palette = tracking.DefaultPalette
	}
	if err := bag.Colorize(palette); err != nil {
		return nil, err
	}

	dir, err := render.NewRunDir(m.OutputDir, time.Now())
	if err != nil {
		return nil, fmt.Errorf("create frames folder: %w", err)
	}
	res := &MovieResult{FramesDir: dir, Tracks: bag.Len(), Points: bag.PointCount()}

	n, err := m.RenderFrames(ctx, bag, dir)
	if err != nil {
		return nil, err
	}
	res.Frames = n

	if m.Video != nil && n > 0 {
		log.Info().Str("dir", dir).Msg("rendering video")
		video, err := m.Video.Encode(ctx, dir)
		if err != nil {
			return nil, err
		}
		res.Video = video
	}
	log.Info().Str("dir", dir).Int("frames", n).Int("tracks", res.Tracks).Msg("movie ready")
	return res, nil
}

// RenderFrames writes every frame of a colorized bag into dir, rendering
// up to Workers frames at once. It returns the number of frames written.
func (m *MovieOperator) RenderFrames(ctx context.Context, bag *tracking.TrackBag, dir string) (int, error) {
	base := m.BaseMap
	if base == nil {
		var err error
		if base, err = render.LoadBaseMap("", m.Projection.Width(), m.Projection.Height()); err != nil {
			return 0, err
		}
	}
	r, err := render.NewFrameRenderer(base, m.Projection, bag, m.Timing, m.Style, m.Label)
	if err != nil {
		return 0, err
	}

	frames := m.Timing.Frames()
	log := internal.Logger()
	log.Info().Int("frames", len(frames)).Int("nominal", m.Timing.FrameCount()).Str("dir", dir).Msg("filming")

	var bar *progressbar.ProgressBar
	if m.Progress {
		bar = progressbar.Default(int64(len(frames)), "Filming")
		defer func() { _ = bar.Finish() }()
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var written atomic.Int64
	for _, f := range frames {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			img, err := r.Render(f.Time)
			if err != nil {
				return fmt.Errorf("frame %d: %w", f.Index, err)
			}
			if err := render.SaveFrame(render.FramePath(dir, f.Index), img); err != nil {
				return fmt.Errorf("frame %d: %w", f.Index, err)
			}
			FrameDuration.Observe(time.Since(started).Seconds())
			FramesRendered.Inc()
			written.Add(1)
			log.Debug().Int("frame", f.Index).Int("total", len(frames)).Msg("filmed frame")
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	if err := ctx.Err(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}
