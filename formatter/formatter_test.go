package formatter

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

var base = time.Date(2022, 10, 13, 7, 0, 0, 0, time.UTC)

func squareProjection(t *testing.T) *geomap.Projection {
	t.Helper()
	p, err := geomap.Calibrate(
		geomap.GeoPivot{Lat: 53.3244431, Lon: -6.385786, X: 182, Y: 353},
		geomap.GeoPivot{Lat: 41.0055005, Lon: 28.7319977, X: 1065, Y: 812},
		1122, 976,
	)
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	return p
}

func pt(x, y float64, minutes int) tracking.TrackPoint {
	return tracking.TrackPoint{X: x, Y: y, Time: base.Add(time.Duration(minutes) * time.Minute)}
}

func bagOf(t *testing.T, tracks map[int64][]tracking.TrackPoint) *tracking.TrackBag {
	t.Helper()
	bag := tracking.NewTrackBag()
	for id, points := range tracks {
		for _, p := range points {
			if err := bag.AddPoint(id, p); err != nil {
				t.Fatalf("add point: %v", err)
			}
		}
	}
	return bag
}

func TestEncodeText(t *testing.T) {
	proj := squareProjection(t)
	tests := []struct {
		name   string
		tracks map[int64][]tracking.TrackPoint
		want   string
	}{
		{
			name:   "empty bag",
			tracks: nil,
			want:   "",
		},
		{
			name:   "single point",
			tracks: map[int64][]tracking.TrackPoint{3: {pt(10, 20, 0)}},
			want:   "3,0,10,20,#",
		},
		{
			name:   "short hop",
			tracks: map[int64][]tracking.TrackPoint{7: {pt(100, 100, 0), pt(105, 102, 5)}},
			want:   "7,0,100,100,5,105,102,#",
		},
		{
			name:   "leap inserts break marker",
			tracks: map[int64][]tracking.TrackPoint{7: {pt(100, 100, 0), pt(900, 900, 5)}},
			want:   "7,0,100,100,5,0,0,5,900,900,#",
		},
		{
			name: "tracks in ascending id order",
			tracks: map[int64][]tracking.TrackPoint{
				42: {pt(1, 1, 0)},
				-5: {pt(2, 2, 0)},
				9:  {pt(3, 3, 0), pt(4, 4, 1)},
			},
			want: "-5,0,2,2,#9,0,3,3,1,4,4,#42,0,1,1,#",
		},
		{
			name:   "coordinates round half to even",
			tracks: map[int64][]tracking.TrackPoint{1: {pt(10.5, 11.5, 0), pt(12.4, 12.6, 2)}},
			want:   "1,0,10,12,2,12,13,#",
		},
		{
			name:   "same minute gives zero delta",
			tracks: map[int64][]tracking.TrackPoint{1: {pt(5, 5, 0), pt(6, 6, 0)}},
			want:   "1,0,5,5,0,6,6,#",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeText(bagOf(t, tt.tracks), proj); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeTextDeterministic(t *testing.T) {
	proj := squareProjection(t)
	tracks := map[int64][]tracking.TrackPoint{}
	for id := int64(0); id < 50; id++ {
		tracks[id*7] = []tracking.TrackPoint{pt(float64(id), float64(id*2), int(id)), pt(float64(id+1), float64(id*2), int(id)+3)}
	}
	want := EncodeText(bagOf(t, tracks), proj)
	for i := 0; i < 10; i++ {
		if got := EncodeText(bagOf(t, tracks), proj); got != want {
			t.Fatalf("encoding differs between equal bags")
		}
	}
	if n := strings.Count(want, "#"); n != 50 {
		t.Errorf("expected 50 track terminators, got %d", n)
	}
}

func TestPrefix(t *testing.T) {
	start := time.Date(2023, 10, 3, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	got := Prefix(start, end)
	want := "1696320000,1696323600," +
		itoa(utils.MinutesSinceReference(start)) + "," +
		itoa(utils.MinutesSinceReference(end)) + ","
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if payload := Payload(start, end, "7,0,1,1,#"); payload != want+"7,0,1,1,#" {
		t.Errorf("unexpected payload %q", payload)
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func TestEncodeJSON(t *testing.T) {
	proj := squareProjection(t)
	bag := bagOf(t, map[int64][]tracking.TrackPoint{
		7: {pt(100, 100, 0), pt(900, 900, 5)},
		2: {pt(1, 2, 0)},
	})
	data, err := EncodeJSON(bag, proj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[[2,[[0,1,2]]],[7,[[0,100,100],[5,0,0],[5,900,900]]]]`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	empty, err := EncodeJSON(tracking.NewTrackBag(), proj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(empty) != "[]" {
		t.Errorf("expected [], got %s", empty)
	}
}
