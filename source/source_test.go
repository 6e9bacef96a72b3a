package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/fleet-tracks/config"
	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/gtfsrt"
)

var (
	base = time.Date(2022, 10, 13, 7, 0, 0, 0, time.UTC)
	// Dublin and Istanbul pivots of the square map
	dublin   = Record{Lat: 53.3244431, Lon: -6.385786}
	istanbul = Record{Lat: 41.0055005, Lon: 28.7319977}
)

func squareProjection(t *testing.T) *geomap.Projection {
	t.Helper()
	p, err := geomap.Calibrate(
		geomap.GeoPivot{Lat: dublin.Lat, Lon: dublin.Lon, X: 182, Y: 353},
		geomap.GeoPivot{Lat: istanbul.Lat, Lon: istanbul.Lon, X: 1065, Y: 812},
		1122, 976,
	)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func rec(id int64, at Record, minutes int) Record {
	at.EntityID = id
	at.Time = base.Add(time.Duration(minutes) * time.Minute)
	return at
}

// sliceSource serves fixed records in the given order and counts calls.
type sliceSource struct {
	records []Record
	calls   []Chunk
	err     error
}

func (s *sliceSource) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	s.calls = append(s.calls, Chunk{Start: start, End: end})
	if s.err != nil {
		return s.err
	}
	for _, r := range s.records {
		if r.Time.Before(start) || !r.Time.Before(end) {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name  string
		end   time.Time
		step  time.Duration
		count int
		last  time.Duration
	}{
		{"exact hours", base.Add(4 * time.Hour), time.Hour, 4, time.Hour},
		{"partial tail", base.Add(90 * time.Minute), time.Hour, 2, 30 * time.Minute},
		{"shorter than step", base.Add(10 * time.Minute), time.Hour, 1, 10 * time.Minute},
		{"empty range", base, time.Hour, 0, 0},
		{"zero step", base.Add(time.Hour), 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunks(base, tt.end, tt.step)
			if len(chunks) != tt.count {
				t.Fatalf("expected %d chunks, got %d", tt.count, len(chunks))
			}
			if tt.count == 0 {
				return
			}
			if !chunks[0].Start.Equal(base) || !chunks[len(chunks)-1].End.Equal(tt.end) {
				t.Errorf("chunks do not cover range: %v", chunks)
			}
			if got := chunks[len(chunks)-1].End.Sub(chunks[len(chunks)-1].Start); got != tt.last {
				t.Errorf("last chunk %v, want %v", got, tt.last)
			}
			for i := 1; i < len(chunks); i++ {
				if !chunks[i].Start.Equal(chunks[i-1].End) {
					t.Errorf("gap between chunk %d and %d", i-1, i)
				}
			}
		})
	}
}

func TestLoadTracks(t *testing.T) {
	src := &sliceSource{records: []Record{
		rec(1, dublin, 5),
		rec(2, istanbul, 10),
		rec(1, istanbul, 70),
		// arrives in a later chunk but belongs before the fix above
		rec(1, dublin, 130),
		rec(1, dublin, 65),
	}}
	var parts []int
	bag, err := LoadTracks(context.Background(), src, squareProjection(t), base, base.Add(3*time.Hour),
		WithProgress(func(part, total int) { parts = append(parts, part*10+total) }))
	if err != nil {
		t.Fatalf("LoadTracks: %v", err)
	}
	if len(src.calls) != 3 {
		t.Errorf("expected 3 hourly queries, got %d", len(src.calls))
	}
	if len(parts) != 3 || parts[0] != 13 || parts[2] != 33 {
		t.Errorf("unexpected progress %v", parts)
	}
	if bag.Len() != 2 || bag.PointCount() != 5 {
		t.Fatalf("expected 2 tracks and 5 points, got %d and %d", bag.Len(), bag.PointCount())
	}
	tr := bag.Track(1)
	for i := 1; i < tr.Len(); i++ {
		if tr.Points[i].Time.Before(tr.Points[i-1].Time) {
			t.Fatalf("track 1 not time ordered at %d", i)
		}
	}
	if got := tr.First().Pixel(); got != (geomap.Pixel{X: 182, Y: 353}) {
		t.Errorf("first point projected to %v", got)
	}
	if got := bag.Track(2).First().Pixel(); got != (geomap.Pixel{X: 1065, Y: 812}) {
		t.Errorf("track 2 projected to %v", got)
	}
}

func TestLoadTracksEmptyAndErrors(t *testing.T) {
	proj := squareProjection(t)
	bag, err := LoadTracks(context.Background(), &sliceSource{}, proj, base, base.Add(time.Hour))
	if err != nil || bag.Len() != 0 {
		t.Fatalf("empty source: %v, %d tracks", err, bag.Len())
	}

	boom := errors.New("boom")
	if _, err := LoadTracks(context.Background(), &sliceSource{err: boom}, proj, base, base.Add(time.Hour)); !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}

	stopping := Func(func(ctx context.Context, start, end time.Time, fn func(Record) error) error {
		_ = fn(rec(4, dublin, 1))
		return ErrStop
	})
	bag, err = LoadTracks(context.Background(), stopping, proj, base, base.Add(30*time.Minute), WithChunk(10*time.Minute))
	if err != nil || bag.PointCount() != 3 {
		t.Errorf("ErrStop: %v, %d points", err, bag.PointCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadTracks(ctx, &sliceSource{}, proj, base, base.Add(time.Hour)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLSource(t *testing.T) {
	db, err := OpenSQL("duckdb", ":memory:")
	if err != nil {
		t.Fatalf("failed to open duckdb: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE geolocations (tracker_id BIGINT, time TIMESTAMP, lat DOUBLE, lon DOUBLE)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, r := range []Record{rec(7, dublin, 30), rec(7, istanbul, 0), rec(9, dublin, 45), rec(9, dublin, 61)} {
		if _, err := db.ExecContext(ctx, `INSERT INTO geolocations VALUES (?, ?, ?, ?)`, r.EntityID, r.Time, r.Lat, r.Lon); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	src := NewSQLSource(db, "geolocations")
	var got []Record
	err = src.Records(ctx, base, base.Add(time.Hour), func(r Record) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records in the first hour, got %d", len(got))
	}
	if got[0].EntityID != 7 || !got[0].Time.Equal(base) || got[0].Lat != istanbul.Lat {
		t.Errorf("unexpected first record %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Time.Before(got[i-1].Time) {
			t.Errorf("records not ordered by time")
		}
	}

	bag, err := LoadTracks(ctx, src, squareProjection(t), base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 2 || bag.Track(9).Len() != 2 {
		t.Errorf("unexpected bag: %d tracks", bag.Len())
	}
}

const gpxDoc = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="fleet-tracks" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>van</name>
    <trkseg>
      <trkpt lat="53.3244431" lon="-6.385786"><time>2022-10-13T07:05:00Z</time></trkpt>
      <trkpt lat="53.3300000" lon="-6.380000"><time>2022-10-13T07:10:00Z</time></trkpt>
      <trkpt lat="53.3400000" lon="-6.370000"><time>2022-10-13T09:10:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>
`

func TestGPXSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"42.gpx", "van-b.gpx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(gpxDoc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	src := NewGPXSource(dir)
	var got []Record
	err := src.Records(context.Background(), base, base.Add(time.Hour), func(r Record) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
	ids := map[int64]int{}
	for _, r := range got {
		ids[r.EntityID]++
	}
	if ids[42] != 2 || len(ids) != 2 {
		t.Errorf("unexpected entity ids %v", ids)
	}

	if err := NewGPXSource(filepath.Join(dir, "missing")).Records(context.Background(), base, base.Add(time.Hour), func(Record) error { return nil }); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBreakerSource(t *testing.T) {
	boom := errors.New("db down")
	inner := &sliceSource{err: boom}
	src := NewBreakerSource(inner, BreakerSettings{Name: "test", MaxFailures: 2, OpenTimeout: time.Hour})
	noop := func(Record) error { return nil }

	for i := 0; i < 2; i++ {
		if err := src.Records(context.Background(), base, base.Add(time.Hour), noop); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}
	if err := src.Records(context.Background(), base, base.Add(time.Hour), noop); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if len(inner.calls) != 2 {
		t.Errorf("open breaker still called the source: %d calls", len(inner.calls))
	}
	if src.State() != "open" {
		t.Errorf("state = %s", src.State())
	}

	// early stops do not trip the breaker
	stopper := NewBreakerSource(Func(func(context.Context, time.Time, time.Time, func(Record) error) error {
		return ErrStop
	}), BreakerSettings{MaxFailures: 1, OpenTimeout: time.Hour})
	for i := 0; i < 3; i++ {
		_ = stopper.Records(context.Background(), base, base.Add(time.Hour), noop)
	}
	if stopper.State() != "closed" {
		t.Errorf("stopper state = %s", stopper.State())
	}
}

func TestFromConfig(t *testing.T) {
	src, closeFn, err := FromConfig(config.SourceConfig{Kind: "gpx", GPXDir: t.TempDir(), Breaker: config.BreakerConfig{Enabled: true}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*BreakerSource); !ok {
		t.Errorf("expected breaker wrapper, got %T", src)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}
	if _, _, err := FromConfig(config.SourceConfig{Kind: "kafka"}); err == nil {
		t.Error("expected error for unknown kind")
	}
	src, closeFn, err = FromConfig(config.SourceConfig{Kind: "sql", Driver: "duckdb", DSN: ":memory:", Table: "geolocations"})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = closeFn() }()
	if _, ok := src.(*SQLSource); !ok {
		t.Errorf("expected *SQLSource, got %T", src)
	}
}

// writeSnapshot archives a vehicle positions feed taken at at, with one fix
// of vehicle "5" per entry of fixes.
func writeSnapshot(t *testing.T, dir string, at time.Time, fixes ...time.Time) {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(at.Unix())),
		},
	}
	for i, fix := range fixes {
		fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{
			Id: proto.String(fmt.Sprintf("e%d", i)),
			Vehicle: &gtfsrtpb.VehiclePosition{
				Vehicle:   &gtfsrtpb.VehicleDescriptor{Id: proto.String("5")},
				Position:  &gtfsrtpb.Position{Latitude: proto.Float32(48), Longitude: proto.Float32(11)},
				Timestamp: proto.Uint64(uint64(fix.Unix())),
			},
		})
	}
	data, err := proto.Marshal(fm)
	if err != nil {
		t.Fatal(err)
	}
	if err := gtfsrt.WriteSnapshot(gtfsrt.ArchivePath(dir, at, true), data); err != nil {
		t.Fatal(err)
	}
}

func TestArchiveSource(t *testing.T) {
	dir := t.TempDir()
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }
	writeSnapshot(t, dir, at(10), at(9))
	// repeats the 9 minute fix and reports an earlier one first seen here
	writeSnapshot(t, dir, at(20), at(19), at(9), at(5))

	var got []time.Time
	err := NewArchiveSource(dir).Records(context.Background(), base, at(60), func(r Record) error {
		if r.EntityID != 5 {
			t.Errorf("expected entity 5, got %d", r.EntityID)
		}
		got = append(got, r.Time)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Time{at(9), at(19), at(5)}
	if len(got) != len(want) {
		t.Fatalf("expected %d fixes, got %v", len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("fix %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	bag, err := LoadTracks(context.Background(), NewArchiveSource(dir), squareProjection(t), base, at(60))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	points := bag.Track(5).Points
	if len(points) != 3 || !points[0].Time.Equal(at(5)) || !points[2].Time.Equal(at(19)) {
		t.Errorf("expected three fixes in time order, got %v", points)
	}
}
