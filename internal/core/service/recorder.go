package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/pkg/metrics"
)

// Outcome labels for metrics.ClockActionsTotal.
const (
	outcomeSuccess  = "success"
	outcomeDenied   = "denied"
	outcomeNotFound = "not_found"
	outcomeBusy     = "busy"
	outcomeError    = "error"
)

// Recorder performs the two state mutations of the time-clock: opening a shift
// and closing it. Every call returns an ActionResult; errors are folded into
// failed results.
type Recorder struct {
	engine     *StatusEngine
	users      ports.UserRepository
	attendance ports.AttendanceRepository
	locker     ports.ClockLocker
	events     ports.EventPublisher
	zone       *timezone.Zone
	log        zerolog.Logger
}

// NewRecorder wires a Recorder. locker and events may be nil.
func NewRecorder(
	engine *StatusEngine,
	users ports.UserRepository,
	attendance ports.AttendanceRepository,
	locker ports.ClockLocker,
	events ports.EventPublisher,
	zone *timezone.Zone,
	log zerolog.Logger,
) *Recorder {
	return &Recorder{
		engine:     engine,
		users:      users,
		attendance: attendance,
		locker:     locker,
		events:     events,
		zone:       zone,
		log:        log,
	}
}

// RegisterEntry opens today's shift for userID.
func (r *Recorder) RegisterEntry(ctx context.Context, userID int64) ports.ActionResult {
	return r.run(ctx, domain.ActionEntry, userID, r.registerEntry)
}

// RegisterExit closes today's open shift for userID.
func (r *Recorder) RegisterExit(ctx context.Context, userID int64) ports.ActionResult {
	return r.run(ctx, domain.ActionExit, userID, r.registerExit)
}

type actionFunc func(ctx context.Context, userID int64) (ports.ActionResult, string)

// run holds the per-user lock around the check-then-mutate sequence of fn.
func (r *Recorder) run(ctx context.Context, kind domain.ActionKind, userID int64, fn actionFunc) ports.ActionResult {
	timer := prometheus.NewTimer(metrics.ClockActionDuration.WithLabelValues(string(kind)))
	defer timer.ObserveDuration()

	release, err := r.acquire(ctx, userID)
	if errors.Is(err, domain.ErrClockBusy) {
		metrics.ClockActionsTotal.WithLabelValues(string(kind), outcomeBusy).Inc()
		return failure("Another clock action is already being processed. Try again.")
	}
	if release != nil {
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to release clock lock")
			}
		}()
	}

	res, outcome := fn(ctx, userID)
	metrics.ClockActionsTotal.WithLabelValues(string(kind), outcome).Inc()
	if res.Success && res.OutsideSchedule {
		metrics.OutsideScheduleTotal.WithLabelValues(string(kind)).Inc()
	}
	return res
}

// acquire returns domain.ErrClockBusy only when the lock is held elsewhere.
// Lock store failures are logged and the action proceeds unlocked; storage
// constraints still reject a duplicate day.
func (r *Recorder) acquire(ctx context.Context, userID int64) (func(context.Context) error, error) {
	if r.locker == nil {
		return nil, nil
	}
	release, err := r.locker.Acquire(ctx, userID)
	if errors.Is(err, domain.ErrClockBusy) {
		return nil, err
	}
	if err != nil {
		r.log.Warn().Err(err).Int64("user_id", userID).Msg("clock lock unavailable, proceeding without it")
		return nil, nil
	}
	return release, nil
}

func (r *Recorder) registerEntry(ctx context.Context, userID int64) (ports.ActionResult, string) {
	ok, reason, err := r.engine.CanRegisterEntry(ctx, userID)
	if err != nil {
		return r.unexpected("register entry", userID, err), outcomeError
	}
	if !ok {
		return failure(reason), outcomeDenied
	}

	user, err := r.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return failure("User not found."), outcomeNotFound
	}
	if err != nil {
		return r.unexpected("register entry", userID, err), outcomeError
	}

	now := r.zone.NowUTC()
	outside, schedule := r.engine.IsOutsideSchedule(domain.ActionEntry, now)

	rec := &domain.AttendanceRecord{
		UserID:    user.ID,
		LocalDate: r.zone.LocalDate(now),
		EntryTime: now,
	}
	if err := r.attendance.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			// Lost a race with a concurrent entry: report the state that won.
			if ok, reason, cerr := r.engine.CanRegisterEntry(ctx, userID); cerr == nil && !ok {
				return failure(reason), outcomeDenied
			}
			return failure("Attendance already registered for today."), outcomeDenied
		}
		return r.unexpected("register entry", userID, err), outcomeError
	}

	entry := r.zone.Display(now)
	res := ports.ActionResult{
		Success:          true,
		Message:          "Entry registered successfully at " + entry,
		NotificationType: ports.NotifySuccess,
		EntryTime:        entry,
		Date:             rec.LocalDate,
		AttendanceID:     rec.ID,
	}
	flagOutside(&res, outside, schedule)

	r.publish(domain.ActionEntry, rec, now, outside)
	r.log.Info().
		Int64("user_id", userID).
		Int64("attendance_id", rec.ID).
		Bool("outside_schedule", outside).
		Msg("entry registered")

	return res, outcomeSuccess
}

func (r *Recorder) registerExit(ctx context.Context, userID int64) (ports.ActionResult, string) {
	ok, reason, err := r.engine.CanRegisterExit(ctx, userID)
	if err != nil {
		return r.unexpected("register exit", userID, err), outcomeError
	}
	if !ok {
		return failure(reason), outcomeDenied
	}

	rec, err := r.engine.TodaysRecord(ctx, userID)
	if err != nil {
		return r.unexpected("register exit", userID, err), outcomeError
	}
	if rec == nil {
		return failure("No attendance record found for today."), outcomeNotFound
	}

	now := r.zone.NowUTC()
	if now.Before(rec.EntryTime) {
		now = rec.EntryTime
	}

	closed, err := r.attendance.CloseShift(ctx, rec.ID, now)
	switch {
	case errors.Is(err, domain.ErrAlreadyClockedOut):
		return failure(reasonClockedOut), outcomeDenied
	case errors.Is(err, domain.ErrAttendanceNotFound):
		return failure("No attendance record found for today."), outcomeNotFound
	case err != nil:
		return r.unexpected("register exit", userID, err), outcomeError
	}

	outside, schedule := r.engine.IsOutsideSchedule(domain.ActionExit, now)
	hours := domain.Hours(closed.Worked(now))
	exit := r.zone.Display(now)

	res := ports.ActionResult{
		Success:          true,
		Message:          "Exit registered successfully at " + exit,
		NotificationType: ports.NotifySuccess,
		EntryTime:        r.zone.Display(closed.EntryTime),
		ExitTime:         exit,
		HoursWorked:      &hours,
		Date:             r.zone.LocalDate(now),
		AttendanceID:     closed.ID,
	}
	flagOutside(&res, outside, schedule)

	r.publish(domain.ActionExit, closed, now, outside)
	r.log.Info().
		Int64("user_id", userID).
		Int64("attendance_id", closed.ID).
		Float64("hours_worked", hours).
		Bool("outside_schedule", outside).
		Msg("exit registered")

	return res, outcomeSuccess
}

func (r *Recorder) publish(kind domain.ActionKind, rec *domain.AttendanceRecord, at time.Time, outside bool) {
	if r.events == nil {
		return
	}
	r.events.Publish(domain.AttendanceEvent{
		ID:              uuid.NewString(),
		UserID:          rec.UserID,
		RecordID:        rec.ID,
		Kind:            kind,
		OccurredAt:      at,
		OutsideSchedule: outside,
	})
}

func (r *Recorder) unexpected(op string, userID int64, err error) ports.ActionResult {
	r.log.Error().Err(err).Int64("user_id", userID).Str("op", op).Msg("clock action failed")
	return failure(fmt.Sprintf("Failed to %s: %v", op, err))
}

func failure(msg string) ports.ActionResult {
	return ports.ActionResult{Success: false, Message: msg, NotificationType: ports.NotifyError}
}

func flagOutside(res *ports.ActionResult, outside bool, schedule string) {
	if !outside {
		return
	}
	res.OutsideSchedule = true
	res.ScheduleMessage = "Outside schedule. " + schedule
	res.NotificationType = ports.NotifyWarning
}
