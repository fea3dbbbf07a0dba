package domain

import (
	"fmt"
	"time"
)

const (
	earlyEntryAllowance = time.Hour
	lateExitAllowance   = 2 * time.Hour
	lastInstantOfDay    = 24*time.Hour - time.Nanosecond
)

// ClockTime is a wall-clock time of day without a date.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" in 24-hour form.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Display renders the time as hh:mm AM/PM.
func (c ClockTime) Display() string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format("03:04 PM")
}

func (c ClockTime) sinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// Window is an inclusive time-of-day range expressed as offsets from
// midnight.
type Window struct {
	From time.Duration
	To   time.Duration
}

func (w Window) Contains(offset time.Duration) bool {
	return offset >= w.From && offset <= w.To
}

// TimeOfDay returns the offset of t from midnight in t's own location.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// Schedule holds the standard working hours. It is a value type: build it once
// at startup and hand copies to whoever needs it.
type Schedule struct {
	StandardEntry ClockTime
	StandardExit  ClockTime
	Tolerance     time.Duration
}

// DefaultSchedule is 07:00 to 16:00 with 30 minutes of tolerance.
func DefaultSchedule() Schedule {
	return Schedule{
		StandardEntry: ClockTime{Hour: 7},
		StandardExit:  ClockTime{Hour: 16},
		Tolerance:     30 * time.Minute,
	}
}

// Validate rejects out-of-range times and negative tolerances.
func (s Schedule) Validate() error {
	for _, ct := range []ClockTime{s.StandardEntry, s.StandardExit} {
		if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 {
			return fmt.Errorf("invalid schedule time %s", ct)
		}
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("invalid schedule tolerance %s", s.Tolerance)
	}
	return nil
}

// EntryWindow is [entry-1h, entry+tolerance], clamped to the day.
func (s Schedule) EntryWindow() Window {
	at := s.StandardEntry.sinceMidnight()
	return clampWindow(at-earlyEntryAllowance, at+s.Tolerance)
}

// ExitWindow is [exit-tolerance, exit+2h], clamped to the day.
func (s Schedule) ExitWindow() Window {
	at := s.StandardExit.sinceMidnight()
	return clampWindow(at-s.Tolerance, at+lateExitAllowance)
}

func (s Schedule) Window(kind ActionKind) Window {
	if kind == ActionExit {
		return s.ExitWindow()
	}
	return s.EntryWindow()
}

// Describe returns the human-readable standard time for kind, e.g.
// "Standard entry time: 07:00 AM".
func (s Schedule) Describe(kind ActionKind) string {
	if kind == ActionExit {
		return "Standard exit time: " + s.StandardExit.Display()
	}
	return "Standard entry time: " + s.StandardEntry.Display()
}

func clampWindow(from, to time.Duration) Window {
	if from < 0 {
		from = 0
	}
	if to > lastInstantOfDay {
		to = lastInstantOfDay
	}
	return Window{From: from, To: to}
}
