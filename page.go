package fleettracks

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/theoremus-urban-solutions/fleet-tracks/cache"
	"github.com/theoremus-urban-solutions/fleet-tracks/formatter"
	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/source"
)

// PageDataSource builds track payloads for web clients. Encoded bodies are
// cached per minute-truncated range; the range prefix is attached on every
// request.
type PageDataSource struct {
	source     source.Source
	projection *geomap.Projection
	cache      cache.Store
	chunk      time.Duration
	group      singleflight.Group
}

func NewPageDataSource(src source.Source, proj *geomap.Projection, store cache.Store, chunk time.Duration) *PageDataSource {
	if store == nil {
		store = cache.NopStore{}
	}
	return &PageDataSource{source: src, projection: proj, cache: store, chunk: chunk}
}

// Track returns the full text payload of [start, end), both ends truncated
// to the minute.
func (p *PageDataSource) Track(ctx context.Context, start, end time.Time) (string, error) {
	start, end = minuteRange(start, end)
	body, err := p.Body(ctx, start, end)
	if err != nil {
		return "", err
	}
	return formatter.Payload(start, end, body), nil
}

// Body returns the encoded tracks of [start, end) without the prefix,
// loading and caching them on a miss. The range is truncated to the minute
// so it matches its cache key. Concurrent misses for one range share a
// single load, which keeps running when the caller that started it goes
// away.
func (p *PageDataSource) Body(ctx context.Context, start, end time.Time) (string, error) {
	start, end = minuteRange(start, end)
	key := cache.Key(start, end)
	if body, ok, err := p.cache.Get(ctx, key); err != nil {
		internal.Logger().Warn().Err(err).Str("key", key).Msg("payload cache read failed")
	} else if ok {
		PayloadCacheHits.Inc()
		return body, nil
	}
	PayloadCacheMisses.Inc()

	loadCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		return p.load(loadCtx, key, start, end)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (p *PageDataSource) load(ctx context.Context, key string, start, end time.Time) (string, error) {
	started := time.Now()
	bag, err := source.LoadTracks(ctx, p.source, p.projection, start, end, source.WithChunk(p.chunk))
	if err != nil {
		return "", err
	}
	RecordsLoaded.WithLabelValues("page").Add(float64(bag.PointCount()))
	body := formatter.EncodeText(bag, p.projection)
	EncodeDuration.Observe(time.Since(started).Seconds())
	if err := p.cache.Put(ctx, key, body); err != nil {
		internal.Logger().Warn().Err(err).Str("key", key).Msg("payload cache write failed")
	}
	return body, nil
}

func minuteRange(start, end time.Time) (time.Time, time.Time) {
	return start.Truncate(time.Minute), end.Truncate(time.Minute)
}

// JSON returns the structured encoding of [start, end). It is not cached.
func (p *PageDataSource) JSON(ctx context.Context, start, end time.Time) ([]byte, error) {
	bag, err := source.LoadTracks(ctx, p.source, p.projection, start, end, source.WithChunk(p.chunk))
	if err != nil {
		return nil, err
	}
	RecordsLoaded.WithLabelValues("page").Add(float64(bag.PointCount()))
	return formatter.EncodeJSON(bag, p.projection)
}

// CachedPeriods lists the ranges with a cached payload.
func (p *PageDataSource) CachedPeriods(ctx context.Context) ([]cache.Period, error) {
	return cache.CachedPeriods(ctx, p.cache)
}
