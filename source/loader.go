package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
)

// DefaultChunk is the query window of LoadTracks.
const DefaultChunk = time.Hour

type loadOptions struct {
	chunk    time.Duration
	progress func(part, total int)
}

type LoadOption func(*loadOptions)

// WithChunk sets the query window. Non-positive values keep the default.
func WithChunk(d time.Duration) LoadOption {
	return func(o *loadOptions) {
		if d > 0 {
			o.chunk = d
		}
	}
}

// WithProgress reports each chunk before it is queried.
func WithProgress(fn func(part, total int)) LoadOption {
	return func(o *loadOptions) { o.progress = fn }
}

// LoadTracks reads [start, end) from src chunk by chunk and projects every
// record onto proj. Tracks that arrive out of time order are re-sorted, so
// the returned bag satisfies the ordering the window engine relies on.
func LoadTracks(ctx context.Context, src Source, proj *geomap.Projection, start, end time.Time, opts ...LoadOption) (*tracking.TrackBag, error) {
	o := loadOptions{chunk: DefaultChunk}
	for _, opt := range opts {
		opt(&o)
	}
	log := internal.Logger()
	bag := tracking.NewTrackBag()
	chunks := Chunks(start, end, o.chunk)
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Debug().Int("part", i+1).Int("total", len(chunks)).Time("from", c.Start).Msg("downloading part")
		if o.progress != nil {
			o.progress(i+1, len(chunks))
		}
		err := src.Records(ctx, c.Start, c.End, func(r Record) error {
			x, y := proj.GeoToCanvas(r.Lat, r.Lon)
			return bag.AddPoint(r.EntityID, tracking.TrackPoint{X: x, Y: y, Time: r.Time.UTC()})
		})
		if err != nil && !errors.Is(err, ErrStop) {
			return nil, fmt.Errorf("load part %d of %d: %w", i+1, len(chunks), err)
		}
	}
	sorted, err := bag.EnsureOrdered()
	if err != nil {
		return nil, err
	}
	if sorted > 0 {
		log.Warn().Int("tracks", sorted).Msg("re-sorted out-of-order tracks")
	}
	log.Info().
		Int("tracks", bag.Len()).
		Int("points", bag.PointCount()).
		Time("start", start).
		Time("end", end).
		Msg("tracks loaded")
	return bag, nil
}
