package fleettracks

import (
	"net/url"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// maxQueryRange bounds a single track data request.
const maxQueryRange = 31 * 24 * time.Hour

type trackQuery struct {
	Start  time.Time
	End    time.Time
	Format string
}

func parseTrackQuery(q url.Values) (trackQuery, error) {
	startStr, endStr := q.Get("start_date"), q.Get("end_date")
	if startStr == "" || endStr == "" {
		return trackQuery{}, &QueryError{Msg: "You must provide start_date and end_date."}
	}
	start, end, err := utils.ParseTimeRange(startStr, endStr)
	if err != nil {
		return trackQuery{}, err
	}
	// payloads are cached per minute
	start, end = start.Truncate(time.Minute), end.Truncate(time.Minute)
	if !end.After(start) {
		return trackQuery{}, &utils.TimeRangeError{Value: startStr + ".." + endStr, Msg: "range is shorter than a minute"}
	}
	if end.Sub(start) > maxQueryRange {
		return trackQuery{}, &QueryError{Msg: "Requested range must not exceed 31 days."}
	}
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	switch format {
	case "", "text":
		format = "text"
	case "json":
	default:
		return trackQuery{}, &QueryError{Msg: "Unsupported format: " + format}
	}
	return trackQuery{Start: start, End: end, Format: format}, nil
}
