package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

func TestRecorder_RegisterEntry_Success(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 5))

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.NotificationType != ports.NotifySuccess {
		t.Fatalf("expected success notification, got %q", res.NotificationType)
	}
	if res.EntryTime != "07:05 AM" || res.Date != "2024-01-01" {
		t.Fatalf("unexpected entry payload: %+v", res)
	}
	if res.Message != "Entry registered successfully at 07:05 AM" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.AttendanceID == 0 || res.OutsideSchedule || res.ScheduleMessage != "" {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if f.attendance.count() != 1 {
		t.Fatalf("expected 1 record, got %d", f.attendance.count())
	}

	rec, _ := f.engine.TodaysRecord(context.Background(), f.userID)
	if rec == nil || !rec.EntryTime.Equal(local(2024, 1, 1, 7, 5)) || rec.EntryTime.Location() != time.UTC {
		t.Fatalf("expected UTC entry at 13:05Z, got %+v", rec)
	}
	if rec.LocalDate != "2024-01-01" {
		t.Fatalf("unexpected local date %q", rec.LocalDate)
	}

	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(f.events.events))
	}
	ev := f.events.events[0]
	if ev.ID == "" || ev.Kind != domain.ActionEntry || ev.RecordID != res.AttendanceID || ev.UserID != f.userID {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
	if f.locker.acquired != 1 || f.locker.released != 1 {
		t.Fatalf("expected lock acquired and released once, got %d/%d", f.locker.acquired, f.locker.released)
	}
}

func TestRecorder_RegisterEntry_OutsideSchedule(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 31))

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if !res.Success {
		t.Fatalf("late entry must not be blocked: %+v", res)
	}
	if !res.OutsideSchedule || res.NotificationType != ports.NotifyWarning {
		t.Fatalf("expected warning, got %+v", res)
	}
	if !strings.Contains(res.ScheduleMessage, "Standard entry time: 07:00 AM") {
		t.Fatalf("unexpected schedule message %q", res.ScheduleMessage)
	}
	if !f.events.events[0].OutsideSchedule {
		t.Fatalf("expected audit event flagged outside schedule")
	}
}

func TestRecorder_RegisterEntry_OnTimeBoundary(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 29))

	res := f.recorder.RegisterEntry(context.Background(), f.userID)
	if !res.Success || res.OutsideSchedule {
		t.Fatalf("07:29 entry should be on time: %+v", res)
	}
}

func TestRecorder_RegisterEntry_Twice(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	ctx := context.Background()

	first := f.recorder.RegisterEntry(ctx, f.userID)
	f.clock.Advance(time.Minute)
	second := f.recorder.RegisterEntry(ctx, f.userID)

	if !first.Success {
		t.Fatalf("first entry failed: %+v", first)
	}
	if second.Success {
		t.Fatalf("second entry should fail")
	}
	if second.Message != reasonActiveShift || second.NotificationType != ports.NotifyError {
		t.Fatalf("unexpected denial: %+v", second)
	}
	if f.attendance.count() != 1 {
		t.Fatalf("expected exactly 1 record, got %d", f.attendance.count())
	}
	if len(f.events.events) != 1 {
		t.Fatalf("denied action must not publish, got %d events", len(f.events.events))
	}
}

func TestRecorder_RegisterEntry_AfterCompletedDay(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 17, 0))
	exit := local(2024, 1, 1, 16, 0)
	f.attendance.seed(f.userID, local(2024, 1, 1, 7, 0), &exit)

	res := f.recorder.RegisterEntry(context.Background(), f.userID)
	if res.Success || res.Message != reasonCompleted {
		t.Fatalf("expected %q, got %+v", reasonCompleted, res)
	}
}

func TestRecorder_RegisterEntry_UserNotFound(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))

	res := f.recorder.RegisterEntry(context.Background(), 999)

	if res.Success || res.Message != "User not found." {
		t.Fatalf("expected user not found, got %+v", res)
	}
	if n := f.attendance.count(); n != 0 {
		t.Fatalf("expected no record created, got %d", n)
	}
}

func TestRecorder_RegisterEntry_StorageFailure(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	f.attendance.createErr = errors.New("disk full")

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Message != "Failed to register entry: disk full" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(f.events.events) != 0 {
		t.Fatalf("failed action must not publish")
	}
}

func TestRecorder_RegisterEntry_LostRace(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	// The permission check sees no record, but the insert hits the unique index.
	f.attendance.createErr = domain.ErrDuplicateAttendance

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if res.Success || res.Message != "Attendance already registered for today." {
		t.Fatalf("expected duplicate denial, got %+v", res)
	}
}

func TestRecorder_RegisterEntry_LockBusy(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	f.locker.acquireErr = domain.ErrClockBusy

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if res.Success || !strings.Contains(res.Message, "already being processed") {
		t.Fatalf("expected busy failure, got %+v", res)
	}
	if f.attendance.count() != 0 {
		t.Fatalf("no record should be created while locked")
	}
}

func TestRecorder_RegisterEntry_LockStoreDownProceeds(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	f.locker.acquireErr = errors.New("redis: connection refused")

	res := f.recorder.RegisterEntry(context.Background(), f.userID)

	if !res.Success {
		t.Fatalf("expected success without lock, got %+v", res)
	}
}

func TestRecorder_RegisterExit_WithoutEntry(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 16, 0))

	res := f.recorder.RegisterExit(context.Background(), f.userID)

	if res.Success || res.Message != reasonClockInFirst {
		t.Fatalf("expected %q, got %+v", reasonClockInFirst, res)
	}
}

func TestRecorder_FullDay(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 5))
	ctx := context.Background()

	entry := f.recorder.RegisterEntry(ctx, f.userID)
	if !entry.Success {
		t.Fatalf("entry failed: %+v", entry)
	}

	f.clock.Set(local(2024, 1, 1, 16, 10))
	exit := f.recorder.RegisterExit(ctx, f.userID)

	if !exit.Success {
		t.Fatalf("exit failed: %+v", exit)
	}
	if exit.HoursWorked == nil || *exit.HoursWorked != 9.08 {
		t.Fatalf("expected 9.08 hours, got %v", exit.HoursWorked)
	}
	if exit.OutsideSchedule || exit.NotificationType != ports.NotifySuccess {
		t.Fatalf("16:10 exit should be on schedule: %+v", exit)
	}
	if exit.EntryTime != "07:05 AM" || exit.ExitTime != "04:10 PM" || exit.Date != "2024-01-01" {
		t.Fatalf("unexpected exit payload: %+v", exit)
	}
	if exit.AttendanceID != entry.AttendanceID {
		t.Fatalf("exit closed a different record: %d vs %d", exit.AttendanceID, entry.AttendanceID)
	}

	okEntry, _, _ := f.engine.CanRegisterEntry(ctx, f.userID)
	okExit, _, _ := f.engine.CanRegisterExit(ctx, f.userID)
	if okEntry || okExit {
		t.Fatalf("expected both actions denied after completion")
	}

	st, _ := f.engine.CurrentStatus(ctx, f.userID)
	if st.State != domain.StateCompleted || st.HoursWorked != 9.08 {
		t.Fatalf("unexpected status: %+v", st)
	}

	if len(f.events.events) != 2 || f.events.events[1].Kind != domain.ActionExit {
		t.Fatalf("expected entry and exit events, got %+v", f.events.events)
	}
}

func TestRecorder_RegisterExit_Twice(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	ctx := context.Background()

	f.recorder.RegisterEntry(ctx, f.userID)
	f.clock.Set(local(2024, 1, 1, 16, 0))
	f.recorder.RegisterExit(ctx, f.userID)
	res := f.recorder.RegisterExit(ctx, f.userID)

	if res.Success || res.Message != reasonClockedOut {
		t.Fatalf("expected %q, got %+v", reasonClockedOut, res)
	}
}

func TestRecorder_RegisterExit_ClosedConcurrently(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 16, 0))
	f.attendance.seed(f.userID, local(2024, 1, 1, 7, 0), nil)
	f.attendance.closeErr = domain.ErrAlreadyClockedOut

	res := f.recorder.RegisterExit(context.Background(), f.userID)

	if res.Success || res.Message != reasonClockedOut {
		t.Fatalf("expected %q, got %+v", reasonClockedOut, res)
	}
}

func TestRecorder_RegisterExit_OutsideSchedule(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 12, 0))
	f.attendance.seed(f.userID, local(2024, 1, 1, 7, 0), nil)

	res := f.recorder.RegisterExit(context.Background(), f.userID)

	if !res.Success || !res.OutsideSchedule || res.NotificationType != ports.NotifyWarning {
		t.Fatalf("expected early exit warning, got %+v", res)
	}
	if !strings.Contains(res.ScheduleMessage, "Standard exit time: 04:00 PM") {
		t.Fatalf("unexpected schedule message %q", res.ScheduleMessage)
	}
	if *res.HoursWorked != 5 {
		t.Fatalf("expected 5 hours, got %v", *res.HoursWorked)
	}
}

func TestRecorder_RegisterExit_StorageFailure(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 16, 0))
	f.attendance.seed(f.userID, local(2024, 1, 1, 7, 0), nil)
	f.attendance.closeErr = errors.New("timeout")

	res := f.recorder.RegisterExit(context.Background(), f.userID)

	if res.Success || res.Message != "Failed to register exit: timeout" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRecorder_NilCollaborators(t *testing.T) {
	f := newFixture(t, local(2024, 1, 1, 7, 0))
	r := NewRecorder(f.engine, f.users, f.attendance, nil, nil, f.zone, f.recorder.log)

	if res := r.RegisterEntry(context.Background(), f.userID); !res.Success {
		t.Fatalf("expected success without locker and publisher, got %+v", res)
	}
}
