package formatter

import (
	"github.com/goccy/go-json"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/segment"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

// EncodeJSON serializes bag as a list of [entity-id, [[delta,x,y], ...]]
// pairs. Breaks are marked with a [delta,0,0] entry, as in the text form.
func EncodeJSON(bag *tracking.TrackBag, d segment.LeapDetector) ([]byte, error) {
	out := make([][2]any, 0, bag.Len())
	for _, id := range bag.IDs() {
		t := bag.Track(id)
		if t == nil || t.Len() == 0 {
			continue
		}
		points := make([][3]int64, 0, t.Len())
		var prevMinute int64
		var last geomap.Pixel
		for i, p := range t.Points {
			minute := utils.MinutesSinceReference(p.Time)
			var delta int64
			if i > 0 {
				delta = minute - prevMinute
			}
			prevMinute = minute
			xy := p.Pixel()
			if i > 0 && d.IsLeap(xy, last) {
				points = append(points, [3]int64{delta, 0, 0})
			}
			last = xy
			points = append(points, [3]int64{delta, int64(xy.X), int64(xy.Y)})
		}
		out = append(out, [2]any{id, points})
	}
	return json.Marshal(out)
}
