// Package timeago turns review submission timestamps into the coarse
// relative labels the widget shows next to each review.
package timeago

import (
	"fmt"
	"time"
)

// InvalidLabel is returned for timestamps that cannot be parsed.
const InvalidLabel = "Invalid Date"

// JustNow is returned when the timestamp is less than a minute old.
const JustNow = "just now"

// accepted timestamp layouts, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Format returns a coarse "time ago" label for the given timestamp relative
// to now. The elapsed time is projected onto the Unix epoch calendar and the
// label is taken from the largest non-zero UTC field: years = Year-1970,
// months = Month-1, days = Day-1, then hours and minutes. 90 minutes ago is
// therefore "1 hours ago", and a month is however long January 1970 was.
// The storefront has always shown these labels; keep the projection exact.
func Format(timestamp string, now time.Time) string {
	ts, ok := parse(timestamp)
	if !ok {
		return InvalidLabel
	}

	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}

	ref := time.Unix(0, 0).UTC().Add(elapsed)

	years := ref.Year() - 1970
	months := int(ref.Month()) - 1
	days := ref.Day() - 1
	hours := ref.Hour()
	minutes := ref.Minute()

	switch {
	case years > 0:
		return fmt.Sprintf("%d years ago", years)
	case months > 0:
		return fmt.Sprintf("%d months ago", months)
	case days > 0:
		return fmt.Sprintf("%d days ago", days)
	case hours > 0:
		return fmt.Sprintf("%d hours ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return JustNow
	}
}

// FromNow is Format against the current wall clock.
func FromNow(timestamp string) string {
	return Format(timestamp, time.Now().UTC())
}

func parse(timestamp string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, timestamp, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
