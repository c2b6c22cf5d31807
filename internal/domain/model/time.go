package model

import "time"

// Layouts for the wall-clock values carried on the wire.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// MinutesOfDay converts an "HH:MM" value to minutes since midnight.
// Malformed input yields -1 so that comparisons against it always fail.
func MinutesOfDay(clock string) int {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// ValidClock reports whether clock parses as "HH:MM".
func ValidClock(clock string) bool {
	_, err := time.Parse(ClockLayout, clock)
	return err == nil
}

// ValidDate reports whether date parses as "YYYY-MM-DD".
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// DateBefore reports whether a sorts strictly before b. Both must be
// DateLayout values; the lexical order of that layout matches calendar order.
func DateBefore(a, b string) bool {
	return a < b
}
