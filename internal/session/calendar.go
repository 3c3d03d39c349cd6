package session

import "time"

// Clock abstracts wall-clock time so session boundaries are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Calendar decides whether the exchange session is open. Open means the
// exchange-local time falls on a weekday inside [open, close); the open
// boundary is inclusive, the close boundary exclusive. Exchange holidays
// are not modelled.
type Calendar struct {
	loc       *time.Location
	openMins  int // minutes since local midnight
	closeMins int
}

// NewCalendar builds a Calendar for the given IANA time zone and local
// open/close clock times (hours, minutes). Falls back to a fixed UTC-5
// zone when tzdata is missing.
func NewCalendar(tz string, openHour, openMin, closeHour, closeMin int) *Calendar {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.FixedZone("EST", -5*3600)
	}
	return &Calendar{
		loc:       loc,
		openMins:  openHour*60 + openMin,
		closeMins: closeHour*60 + closeMin,
	}
}

// NewNYSECalendar returns the default 09:30-16:00 America/New_York
// calendar used for the underlying equities.
func NewNYSECalendar() *Calendar {
	return NewCalendar("America/New_York", 9, 30, 16, 0)
}

// IsOpen reports whether the session is open at t.
func (c *Calendar) IsOpen(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := local.Hour()*60 + local.Minute()
	return mins >= c.openMins && mins < c.closeMins
}

// Location exposes the exchange time zone, mainly for logging.
func (c *Calendar) Location() *time.Location { return c.loc }
