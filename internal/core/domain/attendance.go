package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ActionKind identifies a clock action.
type ActionKind string

const (
	ActionEntry ActionKind = "entry"
	ActionExit  ActionKind = "exit"
)

// ParseAction maps the raw action selector sent by clients to an ActionKind.
func ParseAction(s string) (ActionKind, bool) {
	switch ActionKind(s) {
	case ActionEntry, ActionExit:
		return ActionKind(s), true
	}
	return "", false
}

// AttendanceState is the three-state machine a user moves through each day.
type AttendanceState string

const (
	StateNotStarted AttendanceState = "not_started"
	StateInProgress AttendanceState = "in_progress"
	StateCompleted  AttendanceState = "completed"
)

// Status is the short state label polled by the clock UI.
func (s AttendanceState) Status() string {
	switch s {
	case StateInProgress:
		return "in"
	case StateCompleted:
		return "completed"
	default:
		return "out"
	}
}

// DayStatus classifies a historical record.
type DayStatus string

const (
	DayCompleted  DayStatus = "completed"
	DayInProgress DayStatus = "in_progress"
	DayIncomplete DayStatus = "incomplete"
)

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("attendance already registered for this day")
	ErrAlreadyClockedOut   = errors.New("attendance record already closed")
	ErrClockBusy           = errors.New("another clock action is in progress")
	ErrInvalidDays         = errors.New("days must be at least 1")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
)

// AttendanceRecord is one clock-in/clock-out cycle. Times are stored in UTC.
// LocalDate is the calendar date of EntryTime in the configured zone and,
// together with UserID, is unique.
type AttendanceRecord struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	LocalDate string     `json:"local_date"`
	EntryTime time.Time  `json:"entry_time"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`
}

// IsOpen reports whether the record still waits for a clock-out.
func (r *AttendanceRecord) IsOpen() bool {
	return r.ExitTime == nil
}

// Worked returns the elapsed time of the shift. Open records are measured up
// to now; a negative result is clamped to zero.
func (r *AttendanceRecord) Worked(now time.Time) time.Duration {
	end := now
	if r.ExitTime != nil {
		end = *r.ExitTime
	}
	d := end.Sub(r.EntryTime)
	if d < 0 {
		return 0
	}
	return d
}

// Hours converts d to hours rounded to two decimals.
func Hours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

// FormatHoursMinutes renders d as "Hh Mm", truncating seconds.
func FormatHoursMinutes(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// AttendanceEvent is the audit entry written after every successful clock
// action.
type AttendanceEvent struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"user_id"`
	RecordID        int64      `json:"record_id"`
	Kind            ActionKind `json:"kind"`
	OccurredAt      time.Time  `json:"occurred_at"`
	OutsideSchedule bool       `json:"outside_schedule"`
}
