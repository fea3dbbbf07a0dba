package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
)

// Denial reasons shown to the user when a clock action is not allowed.
const (
	reasonActiveShift  = "You already have an active shift. Clock out first."
	reasonCompleted    = "You have already completed your shift for today."
	reasonClockInFirst = "You must clock in first."
	reasonClockedOut   = "You have already clocked out for today."
)

// StatusEngine answers every read-side question about a user's attendance
// today. It never mutates state.
type StatusEngine struct {
	repo     ports.AttendanceRepository
	zone     *timezone.Zone
	schedule domain.Schedule
}

func NewStatusEngine(repo ports.AttendanceRepository, zone *timezone.Zone, schedule domain.Schedule) *StatusEngine {
	return &StatusEngine{repo: repo, zone: zone, schedule: schedule}
}

// Schedule returns a copy of the schedule the engine was built with.
func (e *StatusEngine) Schedule() domain.Schedule { return e.schedule }

// TodaysRecord returns the most recent record whose entry falls on the current
// local day, or nil when there is none.
func (e *StatusEngine) TodaysRecord(ctx context.Context, userID int64) (*domain.AttendanceRecord, error) {
	from, to := e.zone.DayBounds(e.zone.Now())
	rec, err := e.repo.LatestInRange(ctx, userID, from, to)
	if errors.Is(err, domain.ErrAttendanceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("todays record: %w", err)
	}
	return rec, nil
}

// CanRegisterEntry allows one entry per local day.
func (e *StatusEngine) CanRegisterEntry(ctx context.Context, userID int64) (bool, string, error) {
	rec, err := e.TodaysRecord(ctx, userID)
	if err != nil {
		return false, "", err
	}
	ok, reason := entryDecision(rec)
	return ok, reason, nil
}

// CanRegisterExit requires an open record for today.
func (e *StatusEngine) CanRegisterExit(ctx context.Context, userID int64) (bool, string, error) {
	rec, err := e.TodaysRecord(ctx, userID)
	if err != nil {
		return false, "", err
	}
	ok, reason := exitDecision(rec)
	return ok, reason, nil
}

func entryDecision(rec *domain.AttendanceRecord) (bool, string) {
	switch {
	case rec == nil:
		return true, ""
	case rec.IsOpen():
		return false, reasonActiveShift
	default:
		return false, reasonCompleted
	}
}

func exitDecision(rec *domain.AttendanceRecord) (bool, string) {
	switch {
	case rec == nil:
		return false, reasonClockInFirst
	case !rec.IsOpen():
		return false, reasonClockedOut
	default:
		return true, ""
	}
}

// IsOutsideSchedule compares the local time of day of instant with the
// window for kind. The flag is advisory and never blocks an action.
func (e *StatusEngine) IsOutsideSchedule(kind domain.ActionKind, instant time.Time) (bool, string) {
	offset := domain.TimeOfDay(e.zone.Local(instant))
	if e.schedule.Window(kind).Contains(offset) {
		return false, ""
	}
	return true, e.schedule.Describe(kind)
}

// CurrentStatus projects today's record into one of the three states. It is
// safe to call on every poll of the clock UI.
func (e *StatusEngine) CurrentStatus(ctx context.Context, userID int64) (*ports.StatusView, error) {
	rec, err := e.TodaysRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return &ports.StatusView{
			State:            domain.StateNotStarted,
			Message:          "You have not started your shift.",
			CanRegisterEntry: true,
		}, nil
	}

	worked := rec.Worked(e.zone.NowUTC())
	hours := domain.Hours(worked)
	entry := e.zone.Display(rec.EntryTime)

	if rec.IsOpen() {
		return &ports.StatusView{
			State:              domain.StateInProgress,
			Message:            "Shift started at " + entry,
			CanRegisterExit:    true,
			HoursWorked:        hours,
			HoursWorkedDisplay: domain.FormatHoursMinutes(worked),
			EntryTime:          entry,
			AttendanceID:       rec.ID,
		}, nil
	}

	return &ports.StatusView{
		State:              domain.StateCompleted,
		Message:            fmt.Sprintf("Shift completed (%.2f hours)", hours),
		HoursWorked:        hours,
		HoursWorkedDisplay: domain.FormatHoursMinutes(worked),
		EntryTime:          entry,
		ExitTime:           e.zone.Display(*rec.ExitTime),
		AttendanceID:       rec.ID,
	}, nil
}
