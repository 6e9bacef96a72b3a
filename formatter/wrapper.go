package formatter

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

// Prefix lets the client align the minute deltas of a payload to absolute
// time: epoch seconds of start and end, then their reference-epoch minutes.
func Prefix(start, end time.Time) string {
	return fmt.Sprintf("%d,%d,%d,%d,",
		utils.EpochSeconds(start),
		utils.EpochSeconds(end),
		utils.MinutesSinceReference(start),
		utils.MinutesSinceReference(end),
	)
}

// Payload attaches the time-range prefix to an encoded body. Bodies are
// cached without the prefix.
func Payload(start, end time.Time, body string) string {
	return Prefix(start, end) + body
}
