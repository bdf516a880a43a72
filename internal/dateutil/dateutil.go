// Package dateutil provides the week and school-year arithmetic used when
// building upstream queries.
package dateutil

import "time"

// Format is the wire date layout understood by the upstream system.
const Format = "2006-01-02"

// MondayBefore returns the Monday of the week containing d (d itself when d
// is a Monday). The time of day is truncated.
func MondayBefore(d time.Time) time.Time {
	d = Midnight(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// FridayAfter returns the Friday of the week containing d (d itself when d
// is a Friday). For weekend dates this is the Friday before d.
func FridayAfter(d time.Time) time.Time {
	return MondayBefore(d).AddDate(0, 0, 4)
}

// SchoolYear returns the calendar year in which the school year containing d
// started. School years start on September 1st.
func SchoolYear(d time.Time) int {
	if d.Month() >= time.September {
		return d.Year()
	}
	return d.Year() - 1
}

// Midnight truncates d to the start of its day, keeping the location.
func Midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
