// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"time"
)

// TimestampMode controls how window bounds are turned into the UTC timestamps sent to GitHub.
type TimestampMode string

const (
	// TimestampUTC converts the instant to UTC before formatting.
	TimestampUTC TimestampMode = "utc"
	// TimestampLegacy keeps the local wall clock and labels it as UTC,
	// which is what the first version of this report did.
	TimestampLegacy TimestampMode = "legacy"
)

// ParseTimestampMode validates a user supplied mode.
func ParseTimestampMode(s string) (TimestampMode, error) {
	switch m := TimestampMode(s); m {
	case TimestampUTC, TimestampLegacy:
		return m, nil
	}
	return "", fmt.Errorf("unknown timestamp mode %q (want %q or %q)", s, TimestampUTC, TimestampLegacy)
}

// TimeWindow is the Monday to Sunday range of the week containing a given instant.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the window of the week containing now. Start is the most recent
// Monday at or before now and keeps now's time of day; End is Start plus six days.
func WeekOf(now time.Time) TimeWindow {
	// time.Weekday counts from Sunday; shift so that Monday is 0.
	offset := (int(now.Weekday()) + 6) % 7
	start := now.AddDate(0, 0, -offset)
	return TimeWindow{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

// Bounds returns Start and End as UTC instants according to mode.
func (w TimeWindow) Bounds(mode TimestampMode) (since, until time.Time) {
	return toUTC(w.Start, mode), toUTC(w.End, mode)
}

func toUTC(t time.Time, mode TimestampMode) time.Time {
	if mode == TimestampLegacy {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}

// FormatTimestamp renders t in the ISO-8601 form used in search qualifiers,
// e.g. 2024-05-06T09:30:00Z or 2024-05-06T09:30:00.250000Z.
// Fractional seconds are printed with microsecond precision only when non-zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Truncate(time.Microsecond).Format("2006-01-02T15:04:05.000000") + "Z"
	}
	return t.Format("2006-01-02T15:04:05") + "Z"
}
