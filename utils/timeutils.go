package utils

import (
	"errors"
	"strings"
	"time"
)

// ReferenceEpoch anchors the minute counts of the wire format.
var ReferenceEpoch = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

// ErrInvalidTimeRange marks malformed or empty query time ranges.
var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRangeError describes why a query time range was rejected.
type TimeRangeError struct {
	Value string
	Msg   string
}

func (e *TimeRangeError) Error() string {
	if e.Value == "" {
		return e.Msg
	}
	return e.Msg + ": " + e.Value
}

func (e *TimeRangeError) Unwrap() error { return ErrInvalidTimeRange }

// MinutesSinceReference returns whole minutes between ReferenceEpoch and t,
// truncated toward zero.
func MinutesSinceReference(t time.Time) int64 {
	return int64(t.Sub(ReferenceEpoch) / time.Minute)
}

// EpochSeconds returns the Unix timestamp of t.
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}

var queryLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z07:00",
}

// ParseQueryTime parses a query date (YYYY-MM-DD, read as UTC midnight) or a
// UTC minute (YYYY-MM-DDTHH:MM).
func ParseQueryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &TimeRangeError{Msg: "missing date"}
	}
	for _, layout := range queryLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &TimeRangeError{Value: s, Msg: "malformed date"}
}

// ParseTimeRange parses both ends of a query and checks end is after start.
func ParseTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseQueryTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseQueryTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, &TimeRangeError{Value: startStr + ".." + endStr, Msg: "end must be after start"}
	}
	return start, end, nil
}

// Iso8601 formats t as RFC3339 in UTC.
func Iso8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
