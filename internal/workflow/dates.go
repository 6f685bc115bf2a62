package workflow

import "time"

// BusinessDaysInclusive counts Monday-Friday days between start and end,
// both ends included. Returns 0 when end precedes start.
func BusinessDaysInclusive(start, end time.Time) int {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
