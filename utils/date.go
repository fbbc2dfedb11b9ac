package utils

import "time"

// AddCalendarMonths adds n calendar months to t, clamping day-of-month
// overflow to the last valid day of the target month. Jan 31 + 1 month
// is Feb 28 (or 29), never Mar 3.
func AddCalendarMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(n), 1, hour, min, sec, t.Nanosecond(), t.Location())
	lastDay := daysInMonth(first.Year(), first.Month())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
