package session

import (
	"testing"
	"time"
)

func TestIsOpenBoundaries(t *testing.T) {
	cal := NewNYSECalendar()
	loc := cal.Location()

	// 2026-08-19 is a Wednesday.
	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before open", time.Date(2026, 8, 19, 9, 29, 59, 0, loc), false},
		{"at open", time.Date(2026, 8, 19, 9, 30, 0, 0, loc), true},
		{"midday", time.Date(2026, 8, 19, 12, 0, 0, 0, loc), true},
		{"last open minute", time.Date(2026, 8, 19, 15, 59, 59, 0, loc), true},
		{"at close", time.Date(2026, 8, 19, 16, 0, 0, 0, loc), false},
		{"after close", time.Date(2026, 8, 19, 18, 30, 0, 0, loc), false},
		{"saturday midday", time.Date(2026, 8, 22, 12, 0, 0, 0, loc), false},
		{"sunday midday", time.Date(2026, 8, 23, 12, 0, 0, 0, loc), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.IsOpen(tc.t); got != tc.want {
				t.Fatalf("IsOpen(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

func TestIsOpenConvertsZones(t *testing.T) {
	cal := NewNYSECalendar()
	// 2026-08-19 17:00 UTC is 13:00 in New York (EDT): session open.
	if !cal.IsOpen(time.Date(2026, 8, 19, 17, 0, 0, 0, time.UTC)) {
		t.Fatalf("17:00 UTC on a weekday should be inside the NY session")
	}
	// 2026-08-19 02:00 UTC is the prior NY evening: closed.
	if cal.IsOpen(time.Date(2026, 8, 19, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("02:00 UTC should be outside the NY session")
	}
}

func TestCustomCalendar(t *testing.T) {
	cal := NewCalendar("America/Argentina/Buenos_Aires", 11, 0, 17, 0)
	loc := cal.Location()
	if !cal.IsOpen(time.Date(2026, 8, 20, 11, 0, 0, 0, loc)) {
		t.Fatalf("custom open boundary should be inclusive")
	}
	if cal.IsOpen(time.Date(2026, 8, 20, 17, 0, 0, 0, loc)) {
		t.Fatalf("custom close boundary should be exclusive")
	}
}
