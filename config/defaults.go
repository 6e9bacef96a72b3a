package config

import "github.com/theoremus-urban-solutions/fleet-tracks/internal"

const (
	DefaultMapName = "default"
	SquareMapName  = "square"
)

// StockMaps returns the calibrations of the two bundled map images.
func StockMaps() []MapConfig {
	return []MapConfig{
		{
			Name:   DefaultMapName,
			Image:  "img/map.png",
			Width:  1841,
			Height: 974,
			Pivots: []PivotConfig{
				{Lat: 51.57733, Lon: -0.13942, X: 518, Y: 386},  // London
				{Lat: 41.70609, Lon: 44.79598, X: 1733, Y: 772}, // Tbilisi
			},
		},
		{
			Name:   SquareMapName,
			Image:  "img/map_square.png",
			Width:  1122,
			Height: 976,
			Pivots: []PivotConfig{
				{Lat: 53.3244431, Lon: -6.385786, X: 182, Y: 353},   // Dublin
				{Lat: 41.0055005, Lon: 28.7319977, X: 1065, Y: 812}, // Istanbul
			},
		},
	}
}

// Default returns a configuration that renders the stock maps from a local
// duckdb file.
func Default() AppConfig {
	relative := [2]float64{2, 94}
	return AppConfig{
		Server: ServerConfig{
			Port:              16181,
			ReadTimeoutMS:     15000,
			WriteTimeoutMS:    60000,
			ShutdownTimeoutMS: 10000,
			RateLimitPerMin:   120,
		},
		Logging: internal.LogConfig{Level: "info", Format: "json"},
		Movie: MovieConfig{
			Map:                 DefaultMapName,
			SecondsPerFrame:     270,
			TrackFadingSeconds:  60 * 60 * 4,
			TrackCuttingSeconds: 60 * 60 * 10,
			VideoFramerate:      24,
			OutputDir:           "output",
			RenderVideo:         true,
			FFmpeg:              "ffmpeg",
			Progress:            true,
		},
		Drawing: DrawingConfig{
			PathTransparency:  0.6,
			PathThickness:     2,
			PathTailThickness: 1,
			HeadRadius:        3,
			HeadThickness:     1,
		},
		Timer: TimerConfig{
			Enabled:         true,
			Format:          "minute",
			RelativeCoords:  &relative,
			FontSize:        16,
			Color:           [3]uint8{222, 222, 222},
			BackgroundColor: [3]uint8{22, 22, 22},
			BackgroundSize:  [2]int{220, 34},
		},
		Source: SourceConfig{
			Kind:     "sql",
			Driver:   "duckdb",
			DSN:      "tracks.duckdb",
			Table:    "geolocations",
			ChunkMin: 60,
			Breaker: BreakerConfig{
				MaxFailures:         3,
				OpenTimeoutMS:       30000,
				HalfOpenMaxRequests: 1,
			},
		},
		GTFSRT: GTFSRTConfig{
			ReadIntervalMS: 30000,
			TimeoutMS:      10000,
		},
		Cache: CacheConfig{
			Kind:    "file",
			Dir:     "cache",
			LRUSize: 64,
		},
		Page: PageConfig{Map: SquareMapName},
	}
}

// withStockMaps appends every stock map whose name is not configured.
func withStockMaps(maps []MapConfig) []MapConfig {
	names := make(map[string]bool, len(maps))
	for _, m := range maps {
		names[m.Name] = true
	}
	for _, m := range StockMaps() {
		if !names[m.Name] {
			maps = append(maps, m)
		}
	}
	return maps
}
