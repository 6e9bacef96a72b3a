package formatter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/fleet-tracks/geomap"
	"github.com/theoremus-urban-solutions/fleet-tracks/segment"
	"github.com/theoremus-urban-solutions/fleet-tracks/tracking"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

// EncodeText serializes every non-empty track of bag in the delta-minute text
// format, inserting a break marker wherever d reports a leap.
func EncodeText(bag *tracking.TrackBag, d segment.LeapDetector) string {
	var b strings.Builder
	for _, id := range bag.IDs() {
		writeTrack(&b, id, bag.Track(id), d)
	}
	return b.String()
}

func writeTrack(b *strings.Builder, id int64, t *tracking.Track, d segment.LeapDetector) {
	if t == nil || t.Len() == 0 {
		return
	}
	var buf []byte
	buf = strconv.AppendInt(buf, id, 10)
	buf = append(buf, ',')

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
			buf = appendTriplet(buf, delta, 0, 0)
		}
		last = xy
		buf = appendTriplet(buf, delta, int64(xy.X), int64(xy.Y))
	}
	buf = append(buf, '#')
	b.Write(buf)
}

func appendTriplet(buf []byte, delta, x, y int64) []byte {
	buf = strconv.AppendInt(buf, delta, 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, x, 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, y, 10)
	return append(buf, ',')
}
