package source

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/config"
)

// FromConfig builds the configured source. The returned close function
// releases any database handle and is never nil.
func FromConfig(cfg config.SourceConfig) (Source, func() error, error) {
	noop := func() error { return nil }
	var src Source
	closeFn := noop
	switch cfg.Kind {
	case "sql", "":
		db, err := OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		src, closeFn = NewSQLSource(db, cfg.Table), db.Close
	case "gtfsrt":
		src = NewArchiveSource(cfg.ArchiveDir)
	case "gpx":
		src = NewGPXSource(cfg.GPXDir)
	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
	if cfg.Breaker.Enabled {
		src = NewBreakerSource(src, BreakerSettings{
			Name:                cfg.Kind,
			MaxFailures:         uint32(cfg.Breaker.MaxFailures),
			OpenTimeout:         time.Duration(cfg.Breaker.OpenTimeoutMS) * time.Millisecond,
			HalfOpenMaxRequests: uint32(cfg.Breaker.HalfOpenMaxRequests),
		})
	}
	return src, closeFn, nil
}
