package gtfsrt

import (
	"context"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
)

// Recorder polls a vehicle positions feed and archives every snapshot.
type Recorder struct {
	Client   *Client
	URL      string
	Dir      string
	Interval time.Duration
	Compress bool

	// OnSnapshot, if set, is called after each archived snapshot.
	OnSnapshot func(path string, positions int)
}

// Run records until ctx is cancelled. Fetch and decode failures are logged
// and retried on the next tick.
func (r *Recorder) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := r.RecordOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			internal.Logger().Warn().Err(err).Str("url", r.URL).Msg("snapshot failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RecordOnce fetches and archives one snapshot, returning its path.
func (r *Recorder) RecordOnce(ctx context.Context) (string, error) {
	data, err := r.Client.Fetch(ctx, r.URL)
	if err != nil {
		return "", err
	}
	fm, err := Decode(data)
	if err != nil {
		return "", err
	}
	ts := HeaderTime(fm)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	path := ArchivePath(r.Dir, ts, r.Compress)
	if err := WriteSnapshot(path, data); err != nil {
		return "", err
	}
	n := len(Positions(fm))
	internal.Logger().Info().Str("path", path).Int("positions", n).Msg("snapshot archived")
	if r.OnSnapshot != nil {
		r.OnSnapshot(path, n)
	}
	return path, nil
}
