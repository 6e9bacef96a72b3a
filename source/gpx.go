package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/theoremus-urban-solutions/fleet-tracks/gtfsrt"
)

// GPXSource serves every *.gpx file of a directory as one entity. The
// entity id is the file stem when numeric, else its hash.
type GPXSource struct {
	Dir string

	once    sync.Once
	records []Record
	err     error
}

func NewGPXSource(dir string) *GPXSource {
	return &GPXSource{Dir: dir}
}

func (s *GPXSource) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	s.once.Do(func() { s.records, s.err = s.load() })
	if s.err != nil {
		return s.err
	}
	i := sort.Search(len(s.records), func(i int) bool { return !s.records[i].Time.Before(start) })
	for ; i < len(s.records) && s.records[i].Time.Before(end); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(s.records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *GPXSource) load() ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.gpx"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, err := os.Stat(s.Dir); err != nil {
			return nil, err
		}
	}
	var out []Record
	for _, path := range paths {
		gpxFile, err := gpx.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPX file %s: %w", path, err)
		}
		id := gtfsrt.EntityID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		for _, track := range gpxFile.Tracks {
			for _, segment := range track.Segments {
				for _, p := range segment.Points {
					if p.Timestamp.IsZero() {
						continue
					}
					out = append(out, Record{EntityID: id, Time: p.Timestamp.UTC(), Lat: p.Latitude, Lon: p.Longitude})
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
