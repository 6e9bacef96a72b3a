package source

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/gtfsrt"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
)

// DefaultArchiveSlack is how far past the range end snapshots are read,
// since a snapshot can report fixes older than its header.
const DefaultArchiveSlack = 5 * time.Minute

// ArchiveSource replays GTFS-Realtime vehicle position snapshots written by
// gtfsrt.Recorder. A fix repeated by several snapshots is emitted once;
// fixes may come out of time order and are sorted by LoadTracks.
type ArchiveSource struct {
	Dir   string
	Slack time.Duration
}

func NewArchiveSource(dir string) *ArchiveSource {
	return &ArchiveSource{Dir: dir, Slack: DefaultArchiveSlack}
}

func (s *ArchiveSource) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	snaps, err := gtfsrt.ListSnapshots(s.Dir, start, end.Add(s.Slack))
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	seen := map[fixKey]struct{}{}
	for _, snap := range snaps {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := gtfsrt.ReadSnapshot(snap.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", snap.Path, err)
		}
		positions, err := gtfsrt.DecodePositions(data)
		if err != nil {
			internal.Logger().Warn().Err(err).Str("path", snap.Path).Msg("skipping unreadable snapshot")
			continue
		}
		for _, p := range positions {
			if p.Time.Before(start) || !p.Time.Before(end) {
				continue
			}
			k := fixKey{entity: p.EntityID, at: p.Time.UnixNano()}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if err := fn(Record{EntityID: p.EntityID, Time: p.Time, Lat: p.Lat, Lon: p.Lon}); err != nil {
				return err
			}
		}
	}
	return nil
}

type fixKey struct {
	entity int64
	at     int64
}
