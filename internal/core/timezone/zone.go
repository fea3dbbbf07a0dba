// Package timezone converts between stored UTC instants and the single local
// zone the time-clock operates in.
//
// Every timestamp is persisted in UTC. Anything shown to a user, and every
// "which day is it" question, goes through a Zone.
package timezone

import (
	"fmt"
	"time"
)

const (
	// DisplayLayout renders a time of day as hh:mm AM/PM.
	DisplayLayout = "03:04 PM"
	// DateLayout is the canonical local calendar date format.
	DateLayout = "2006-01-02"
)

// Zone binds a location to a clock.
type Zone struct {
	loc   *time.Location
	clock Clock
}

// New returns a Zone for loc. A nil clock falls back to SystemClock and a nil
// location to UTC.
func New(loc *time.Location, clock Clock) *Zone {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Zone{loc: loc, clock: clock}
}

// Load resolves an IANA zone name such as "America/El_Salvador".
func Load(name string, clock Clock) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc, clock), nil
}

func (z *Zone) Location() *time.Location { return z.loc }

// Now returns the current instant expressed in the local zone.
func (z *Zone) Now() time.Time {
	return z.clock.Now().In(z.loc)
}

// NowUTC returns the current instant in UTC. This is the value stored in
// attendance records.
func (z *Zone) NowUTC() time.Time {
	return z.clock.Now().UTC()
}

// Local converts t into the local zone.
func (z *Zone) Local(t time.Time) time.Time {
	return t.In(z.loc)
}

// Display renders t in the local zone as hh:mm AM/PM.
func (z *Zone) Display(t time.Time) string {
	return t.In(z.loc).Format(DisplayLayout)
}

// LocalDate returns the local calendar date of t as YYYY-MM-DD.
func (z *Zone) LocalDate(t time.Time) string {
	return t.In(z.loc).Format(DateLayout)
}

// StartOfDay returns local midnight of the calendar day containing t.
func (z *Zone) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(z.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, z.loc)
}

// Today returns local midnight of the current day.
func (z *Zone) Today() time.Time {
	return z.StartOfDay(z.Now())
}

// DayBounds returns the UTC half-open interval [start, end) covering the local
// calendar day that contains day. end is the following local midnight, so days
// that gain or lose an hour to DST keep their true length.
func (z *Zone) DayBounds(day time.Time) (start, end time.Time) {
	s := z.StartOfDay(day)
	y, m, d := s.Date()
	e := time.Date(y, m, d+1, 0, 0, 0, 0, z.loc)
	return s.UTC(), e.UTC()
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
func (z *Zone) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, z.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
