package segment

import (
	"reflect"
	"testing"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
)

// thresholdDetector treats any jump longer than limit pixels as a leap.
type thresholdDetector struct{ limit int }

func (d thresholdDetector) IsLeap(a, b geomap.Pixel) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy > d.limit*d.limit
}

func px(coords ...int) []geomap.Pixel {
	out := make([]geomap.Pixel, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geomap.Pixel{X: coords[i], Y: coords[i+1]})
	}
	return out
}

func TestSplit(t *testing.T) {
	d := thresholdDetector{limit: 10}
	tests := []struct {
		name   string
		points []geomap.Pixel
		want   [][]geomap.Pixel
	}{
		{
			name:   "empty",
			points: nil,
			want:   nil,
		},
		{
			name:   "single point",
			points: px(5, 5),
			want:   [][]geomap.Pixel{px(5, 5)},
		},
		{
			name:   "no leaps",
			points: px(0, 0, 3, 4, 6, 8, 9, 12),
			want:   [][]geomap.Pixel{px(0, 0, 3, 4, 6, 8, 9, 12)},
		},
		{
			name:   "one leap",
			points: px(0, 0, 3, 4, 100, 100, 103, 104),
			want:   [][]geomap.Pixel{px(0, 0, 3, 4), px(100, 100, 103, 104)},
		},
		{
			name:   "leap isolates a single point",
			points: px(0, 0, 50, 50, 100, 100),
			want:   [][]geomap.Pixel{px(0, 0), px(50, 50), px(100, 100)},
		},
		{
			name:   "repeated points",
			points: px(1, 1, 1, 1, 1, 1),
			want:   [][]geomap.Pixel{px(1, 1, 1, 1, 1, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.points, d)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplit_WithProjection(t *testing.T) {
	proj, err := geomap.Calibrate(
		geomap.GeoPivot{Lat: 53.3244431, Lon: -6.385786, X: 182, Y: 353},
		geomap.GeoPivot{Lat: 41.0055005, Lon: 28.7319977, X: 1065, Y: 812},
		1122, 976)
	if err != nil {
		t.Fatal(err)
	}
	points := px(100, 100, 105, 102, 110, 104)
	runs := Split(points, proj)
	if len(runs) != 1 || !reflect.DeepEqual(runs[0], points) {
		t.Errorf("continuous run should not split: %v", runs)
	}

	points = px(100, 100, 105, 102, 900, 900, 905, 902)
	runs = Split(points, proj)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %v", len(runs), runs)
	}
	if !reflect.DeepEqual(runs[0], px(100, 100, 105, 102)) || !reflect.DeepEqual(runs[1], px(900, 900, 905, 902)) {
		t.Errorf("unexpected split: %v", runs)
	}
}
