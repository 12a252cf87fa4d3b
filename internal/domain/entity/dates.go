package entity

import "time"

// dateOnly truncates a timestamp to its calendar date. All expiry and
// due-date comparisons work on whole days, matching the date columns.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
