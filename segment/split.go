// Package segment breaks a run of canvas points into polylines at leaps, so no
// line is drawn across a gap in the position data.
package segment

import "github.com/theoremus-urban-solutions/fleet-tracks/geomap"

// LeapDetector decides whether two consecutive points are disconnected.
type LeapDetector interface {
	IsLeap(a, b geomap.Pixel) bool
}

// Split partitions points into contiguous runs, starting a new run wherever
// a point leaps from its predecessor. Runs may hold a single point.
func Split(points []geomap.Pixel, d LeapDetector) [][]geomap.Pixel {
	if len(points) == 0 {
		return nil
	}
	runs := [][]geomap.Pixel{{points[0]}}
	for i := 1; i < len(points); i++ {
		if d.IsLeap(points[i], points[i-1]) {
			runs = append(runs, []geomap.Pixel{points[i]})
			continue
		}
		last := len(runs) - 1
		runs[last] = append(runs[last], points[i])
	}
	return runs
}
