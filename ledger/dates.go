package ledger

import (
	"time"
)

// DateLayout is the calendar key format used for event dates.
const DateLayout = "2006-01-02"

// WindowDays is the length of the trailing daily PnL series.
const WindowDays = 7

// DateKey formats t's calendar date in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key. Two-digit month and day are required.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today returns now() expressed in loc. A nil loc means UTC.
func Today(now func() time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// WindowDates returns the WindowDays calendar days ending with today,
// oldest first. Days are built at noon so DST transitions cannot push a
// date across midnight.
func WindowDates(today time.Time) [WindowDays]time.Time {
	var out [WindowDays]time.Time
	y, m, d := today.Date()
	for i := range out {
		out[i] = time.Date(y, m, d-(WindowDays-1-i), 12, 0, 0, 0, today.Location())
	}
	return out
}

// WindowKeys is WindowDates formatted as date keys.
func WindowKeys(today time.Time) [WindowDays]string {
	var keys [WindowDays]string
	for i, day := range WindowDates(today) {
		keys[i] = DateKey(day)
	}
	return keys
}
