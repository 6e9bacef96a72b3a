package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
)

var t0 = time.Date(2022, 10, 13, 7, 0, 0, 0, time.UTC)

func pt(x, y float64, minutes int) TrackPoint {
	return TrackPoint{X: x, Y: y, Time: t0.Add(time.Duration(minutes) * time.Minute)}
}

func TestTrackBag_AddPoint(t *testing.T) {
	bag := NewTrackBag()
	for _, p := range []TrackPoint{pt(1, 1, 0), pt(2, 2, 1), pt(3, 3, 2)} {
		if err := bag.AddPoint(7, p); err != nil {
			t.Fatalf("AddPoint: %v", err)
		}
	}
	if err := bag.AddPoint(3, pt(10, 10, 0)); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}

	if bag.Len() != 2 {
		t.Errorf("expected 2 tracks, got %d", bag.Len())
	}
	if bag.PointCount() != 4 {
		t.Errorf("expected 4 points, got %d", bag.PointCount())
	}
	tr := bag.Track(7)
	if tr == nil || tr.Len() != 3 {
		t.Fatalf("track 7 should have 3 points, got %+v", tr)
	}
	if tr.First().X != 1 || tr.Last().X != 3 {
		t.Errorf("points out of insertion order: %+v", tr.Points)
	}
	if bag.Track(99) != nil {
		t.Error("unknown entity should have no track")
	}
}

func TestTrackBag_IDsSorted(t *testing.T) {
	bag := NewTrackBag()
	for _, id := range []int64{42, -3, 7, 1000, 0} {
		_ = bag.AddPoint(id, pt(0, 0, 0))
	}
	got := bag.IDs()
	want := []int64{-3, 0, 7, 42, 1000}
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", got, want)
		}
	}
}

func TestTrackBag_ColorizeFreezes(t *testing.T) {
	bag := NewTrackBag()
	_ = bag.AddPoint(10, pt(0, 0, 0))
	_ = bag.AddPoint(4, pt(0, 0, 0))

	if err := bag.Colorize(DefaultPalette); err != nil {
		t.Fatalf("Colorize: %v", err)
	}
	if !bag.Frozen() {
		t.Error("bag should be frozen after Colorize")
	}
	if got := bag.Track(10).Color; got != DefaultPalette[1] {
		t.Errorf("track 10 color = %v, want %v", got, DefaultPalette[1])
	}
	if got := bag.Track(4).Color; got != DefaultPalette[4] {
		t.Errorf("track 4 color = %v, want %v", got, DefaultPalette[4])
	}

	if err := bag.Colorize(DefaultPalette); !errors.Is(err, ErrAlreadyColorized) {
		t.Errorf("second Colorize: expected ErrAlreadyColorized, got %v", err)
	}
	if err := bag.AddPoint(10, pt(1, 1, 1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddPoint after Colorize: expected ErrFrozen, got %v", err)
	}
	if _, err := bag.EnsureOrdered(); !errors.Is(err, ErrFrozen) {
		t.Errorf("EnsureOrdered after Colorize: expected ErrFrozen, got %v", err)
	}
}

func TestTrackBag_ColorizeEmptyPalette(t *testing.T) {
	bag := NewTrackBag()
	if err := bag.Colorize(nil); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("expected ErrEmptyPalette, got %v", err)
	}
	if bag.Frozen() {
		t.Error("failed Colorize must not freeze the bag")
	}
}

func TestTrackBag_EnsureOrdered(t *testing.T) {
	bag := NewTrackBag()
	_ = bag.AddPoint(1, pt(1, 0, 0))
	_ = bag.AddPoint(1, pt(2, 0, 5))
	_ = bag.AddPoint(2, pt(1, 0, 5))
	_ = bag.AddPoint(2, pt(2, 0, 0))
	_ = bag.AddPoint(2, pt(3, 0, 5))

	n, err := bag.EnsureOrdered()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 sorted track, got %d", n)
	}
	xs := []float64{}
	for _, p := range bag.Track(2).Points {
		xs = append(xs, p.X)
	}
	// stable: the two points at minute 5 keep their relative order
	if xs[0] != 2 || xs[1] != 1 || xs[2] != 3 {
		t.Errorf("unexpected order after sort: %v", xs)
	}
}

func TestPalette_Color(t *testing.T) {
	p := Palette{{R: 1}, {R: 2}, {R: 3}}
	tests := []struct {
		id   int64
		want uint8
	}{
		{0, 1}, {1, 2}, {2, 3}, {3, 1}, {301, 2}, {-1, 3}, {-3, 1},
	}
	for _, tt := range tests {
		if got := p.Color(tt.id).R; got != tt.want {
			t.Errorf("Color(%d).R = %d, want %d", tt.id, got, tt.want)
		}
	}
	// stable across calls
	if p.Color(12345) != p.Color(12345) {
		t.Error("palette lookup must be deterministic")
	}
}

func TestTrackPoint_Pixel(t *testing.T) {
	p := TrackPoint{X: 99.5, Y: 100.51}
	if got := p.Pixel(); got != (geomap.Pixel{X: 100, Y: 101}) {
		t.Errorf("Pixel() = %v", got)
	}
}
