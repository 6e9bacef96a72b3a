package config

import (
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
)

// ServerConfig contains server configuration
type ServerConfig struct {
	Port              int    `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeoutMS     int    `yaml:"readTimeoutMS" validate:"gte=0"`
	WriteTimeoutMS    int    `yaml:"writeTimeoutMS" validate:"gte=0"`
	ShutdownTimeoutMS int    `yaml:"shutdownTimeoutMS" validate:"gte=0"`
	RateLimitPerMin   int    `yaml:"rateLimitPerMin" validate:"gte=0"`
	StaticDir         string `yaml:"staticDir"`
}

// PivotConfig is one calibration anchor of a map image
type PivotConfig struct {
	Lat float64 `yaml:"lat" validate:"gte=-85,lte=85"`
	Lon float64 `yaml:"lon" validate:"gte=-180,lte=180"`
	X   int     `yaml:"x" validate:"gte=0"`
	Y   int     `yaml:"y" validate:"gte=0"`
}

// MapConfig describes a calibrated map image
type MapConfig struct {
	Name        string        `yaml:"name" validate:"required"`
	Image       string        `yaml:"image"`
	Width       int           `yaml:"width" validate:"gt=0"`
	Height      int           `yaml:"height" validate:"gt=0"`
	Pivots      []PivotConfig `yaml:"pivots" validate:"len=2,dive"`
	LeapDivisor float64       `yaml:"leapDivisor" validate:"gte=0"`
}

// MovieConfig contains the timing and output settings of a rendered movie
type MovieConfig struct {
	Map                 string  `yaml:"map"`
	Start               string  `yaml:"start"`
	End                 string  `yaml:"end"`
	SecondsPerFrame     int     `yaml:"secondsPerFrame" validate:"gt=0"`
	TrackFadingSeconds  int     `yaml:"trackFadingSeconds" validate:"gte=0"`
	TrackCuttingSeconds int     `yaml:"trackCuttingSeconds" validate:"gtefield=TrackFadingSeconds"`
	VideoFramerate      float64 `yaml:"videoFramerate" validate:"gt=0"`
	OutputDir           string  `yaml:"outputDir" validate:"required"`
	Workers             int     `yaml:"workers" validate:"gte=0"`
	RenderVideo         bool    `yaml:"renderVideo"`
	FFmpeg              string  `yaml:"ffmpeg"`
	Progress            bool    `yaml:"progress"`
}

// DrawingConfig contains track stroke settings
type DrawingConfig struct {
	PathTransparency  float64 `yaml:"pathTransparency" validate:"gte=0,lte=1"`
	PathThickness     float64 `yaml:"pathThickness" validate:"gt=0"`
	PathTailThickness float64 `yaml:"pathTailThickness" validate:"gt=0"`
	HeadRadius        float64 `yaml:"headRadius" validate:"gte=0"`
	HeadThickness     float64 `yaml:"headThickness" validate:"gte=0"`
}

// TimerConfig contains the frame timestamp label settings
type TimerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format" validate:"omitempty,oneof=minute hour"`
	// AbsCoords wins over RelativeCoords, which are percentages of the canvas.
	RelativeCoords  *[2]float64 `yaml:"relativeCoords"`
	AbsCoords       *[2]int     `yaml:"absCoords"`
	FontSize        float64     `yaml:"fontSize" validate:"gt=0"`
	Color           [3]uint8    `yaml:"color"`
	BackgroundColor [3]uint8    `yaml:"backgroundColor"`
	BackgroundSize  [2]int      `yaml:"backgroundSize"`
}

// BreakerConfig contains circuit breaker settings for record sources
type BreakerConfig struct {
	Enabled             bool `yaml:"enabled"`
	MaxFailures         int  `yaml:"maxFailures" validate:"gte=0"`
	OpenTimeoutMS       int  `yaml:"openTimeoutMS" validate:"gte=0"`
	HalfOpenMaxRequests int  `yaml:"halfOpenMaxRequests" validate:"gte=0"`
}

// SourceConfig selects where vehicle records are read from
type SourceConfig struct {
	Kind       string        `yaml:"kind" validate:"oneof=sql gtfsrt gpx"`
	Driver     string        `yaml:"driver"`
	DSN        string        `yaml:"dsn"`
	Table      string        `yaml:"table" validate:"omitempty,identifier"`
	ChunkMin   int           `yaml:"chunkMinutes" validate:"gte=0"`
	ArchiveDir string        `yaml:"archiveDir"`
	GPXDir     string        `yaml:"gpxDir"`
	Breaker    BreakerConfig `yaml:"breaker"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	ReadIntervalMS      int    `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// CacheConfig contains payload cache configuration
type CacheConfig struct {
	Kind     string `yaml:"kind" validate:"oneof=file badger none"`
	Dir      string `yaml:"dir"`
	LRUSize  int    `yaml:"lruSize" validate:"gte=0"`
	Compress bool   `yaml:"compress"`
}

// PageConfig contains settings of the track data endpoint
type PageConfig struct {
	Map string `yaml:"map"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig       `yaml:"server"`
	Logging internal.LogConfig `yaml:"logging"`
	Maps    []MapConfig        `yaml:"maps" validate:"dive"`
	Movie   MovieConfig        `yaml:"movie"`
	Drawing DrawingConfig      `yaml:"drawing"`
	Timer   TimerConfig        `yaml:"timer"`
	Palette [][3]uint8         `yaml:"palette"`
	Source  SourceConfig       `yaml:"source"`
	GTFSRT  GTFSRTConfig       `yaml:"gtfsrt"`
	Cache   CacheConfig        `yaml:"cache"`
	Page    PageConfig         `yaml:"page"`
}
