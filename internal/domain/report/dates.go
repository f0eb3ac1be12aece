package report

import "time"

const dayKeyLayout = "2006-01-02"

// DayOf truncates a timestamp to its UTC calendar day. All aggregation
// comparisons run on days, never on times, so several same-day events can
// not be double-counted as separate days.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey renders a timestamp as its ISO calendar date.
func DayKey(t time.Time) string {
	return DayOf(t).Format(dayKeyLayout)
}

// DateAxis returns every calendar day from from to to inclusive, one point
// per day. An inverted range yields an empty axis.
func DateAxis(from, to time.Time) []time.Time {
	start := DayOf(from)
	end := DayOf(to)
	if end.Before(start) {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	axis := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		axis = append(axis, d)
	}
	return axis
}
