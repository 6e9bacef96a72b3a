package fleettracks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsLoaded counts track points loaded from record sources, by caller.
	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleettracks_points_loaded_total",
			Help: "Total number of track points loaded from record sources",
		},
		[]string{"caller"},
	)

	FramesRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleettracks_frames_rendered_total",
			Help: "Total number of movie frames written",
		},
	)

	FrameDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleettracks_frame_render_duration_seconds",
			Help:    "Duration of rendering and writing one frame in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PayloadCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleettracks_payload_cache_hits_total",
			Help: "Track payload requests served from cache",
		},
	)

	PayloadCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleettracks_payload_cache_misses_total",
			Help: "Track payload requests that had to load from the source",
		},
	)

	EncodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleettracks_payload_build_duration_seconds",
			Help:    "Duration of loading and encoding a track payload in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
