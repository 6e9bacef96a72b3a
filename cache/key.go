package cache

import (
	"regexp"
	"sort"
	"time"
)

const keyLayout = "06_01_02_15_04"

var keyRe = regexp.MustCompile(`^\d{2}_\d{2}_\d{2}_\d{2}_\d{2}-\d{2}_\d{2}_\d{2}_\d{2}_\d{2}$`)

// Period is a cached time range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Key names the cache entry of [start, end), truncated to the minute in UTC.
func Key(start, end time.Time) string {
	return start.UTC().Format(keyLayout) + "-" + end.UTC().Format(keyLayout)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Period, bool) {
	if !keyRe.MatchString(key) {
		return Period{}, false
	}
	start, err := time.ParseInLocation(keyLayout, key[:14], time.UTC)
	if err != nil {
		return Period{}, false
	}
	end, err := time.ParseInLocation(keyLayout, key[15:], time.UTC)
	if err != nil {
		return Period{}, false
	}
	return Period{Start: start, End: end}, true
}

// periodsFromKeys parses keys, drops foreign ones and sorts by start.
func periodsFromKeys(keys []string) []Period {
	out := make([]Period, 0, len(keys))
	for _, k := range keys {
		if p, ok := ParseKey(k); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
