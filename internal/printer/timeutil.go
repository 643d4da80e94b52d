package printer

import (
	"fmt"
	"time"
)

var agoUnits = []struct {
	name string
	size time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// TimeAgo returns a human-readable time relative to now in UTC.
func TimeAgo(t time.Time) string { return TimeAgoFrom(time.Now(), t) }

// TimeAgoFrom returns a human-readable time of t relative to now.
// Examples: "5 seconds ago (UTC)", "1 hour ago (UTC)", "3 days ago (UTC)".
func TimeAgoFrom(now, t time.Time) string {
	diff := now.UTC().Sub(t.UTC())
	if diff < 0 {
		return "in the future (UTC)"
	}

	u := agoUnits[len(agoUnits)-1]
	for _, cand := range agoUnits {
		if diff >= cand.size {
			u = cand
			break
		}
	}

	n := int(diff / u.size)
	if n == 1 {
		return fmt.Sprintf("1 %s ago (UTC)", u.name)
	}
	return fmt.Sprintf("%d %ss ago (UTC)", n, u.name)
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
