package dateutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayBefore(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", date(2024, time.March, 13), date(2024, time.March, 11)},
		{"monday", date(2024, time.March, 11), date(2024, time.March, 11)},
		{"sunday", date(2024, time.March, 17), date(2024, time.March, 11)},
		{"saturday", date(2024, time.March, 16), date(2024, time.March, 11)},
		{"with time of day", time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC), date(2024, time.March, 11)},
	}
	for _, c := range cases {
		if got := MondayBefore(c.in); !got.Equal(c.want) {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestFridayAfter(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", date(2024, time.March, 13), date(2024, time.March, 15)},
		{"friday", date(2024, time.March, 15), date(2024, time.March, 15)},
		{"monday", date(2024, time.March, 11), date(2024, time.March, 15)},
	}
	for _, c := range cases {
		if got := FridayAfter(c.in); !got.Equal(c.want) {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestSchoolYear(t *testing.T) {
	cases := []struct {
		in   time.Time
		want int
	}{
		{date(2024, time.September, 1), 2024},
		{date(2024, time.December, 31), 2024},
		{date(2025, time.January, 1), 2024},
		{date(2025, time.August, 31), 2024},
		{date(2025, time.September, 2), 2025},
	}
	for _, c := range cases {
		if got := SchoolYear(c.in); got != c.want {
			t.Errorf("SchoolYear(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
