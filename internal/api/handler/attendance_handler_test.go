package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAttendanceHandler_Action_PassesRequest(t *testing.T) {
	stub := &stubAttendanceService{
		processFn: func(ctx context.Context, method, action string, userID int64) ports.ActionResult {
			if method != http.MethodPost || action != "entry" || userID != 4 {
				t.Fatalf("unexpected args: %s %s %d", method, action, userID)
			}
			return ports.ActionResult{
				Success:          true,
				Message:          "Entry registered successfully at 07:31 AM",
				NotificationType: ports.NotifyWarning,
				EntryTime:        "07:31 AM",
				Date:             "2024-05-06",
				AttendanceID:     10,
				OutsideSchedule:  true,
				ScheduleMessage:  "Outside schedule. Standard entry time: 07:00 AM",
			}
		},
	}

	c, rec := newContext(http.MethodPost, "/api/attendance/action", "action=entry", echo.MIMEApplicationForm, 4)
	if err := NewAttendanceHandler(stub).Action(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec.Body.Bytes())
	if resp["success"] != true || resp["notification_type"] != "warning" || resp["outside_schedule"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["attendance_id"] != float64(10) || resp["date"] != "2024-05-06" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["hours_worked"]; ok {
		t.Fatalf("hours_worked must be omitted on entry")
	}
}

func TestAttendanceHandler_Action_FailureOmitsOptionalFields(t *testing.T) {
	stub := &stubAttendanceService{
		processFn: func(ctx context.Context, method, action string, userID int64) ports.ActionResult {
			if method != http.MethodGet {
				t.Fatalf("method not forwarded: %s", method)
			}
			return ports.ActionResult{Success: false, Message: "Method not allowed"}
		},
	}

	c, rec := newContext(http.MethodGet, "/api/attendance/action", "", "", 4)
	if err := NewAttendanceHandler(stub).Action(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec.Body.Bytes())
	if resp["success"] != false || resp["message"] != "Method not allowed" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	for _, key := range []string{"outside_schedule", "entry_time", "attendance_id"} {
		if _, ok := resp[key]; ok {
			t.Fatalf("%s must be omitted on failure", key)
		}
	}
}

func TestAttendanceHandler_Status(t *testing.T) {
	stub := &stubAttendanceService{
		statusFn: func(ctx context.Context, userID int64) (*ports.StatusView, error) {
			return &ports.StatusView{
				State:              domain.StateInProgress,
				Message:            "Shift started at 07:00 AM",
				CanRegisterExit:    true,
				HoursWorked:        2.5,
				HoursWorkedDisplay: "2h 30m",
				EntryTime:          "07:00 AM",
				AttendanceID:       3,
			}, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/api/attendance/status", "", "", 4)
	if err := NewAttendanceHandler(stub).Status(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec.Body.Bytes())
	status, ok := resp["status"].(map[string]any)
	if resp["success"] != true || !ok {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if status["status"] != "in" || status["state"] != "in_progress" || status["can_register_exit"] != true {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status["hours_worked"] != 2.5 || status["hours_worked_display"] != "2h 30m" {
		t.Fatalf("unexpected hours: %+v", status)
	}
}

func TestAttendanceHandler_Status_Error(t *testing.T) {
	stub := &stubAttendanceService{
		statusFn: func(ctx context.Context, userID int64) (*ports.StatusView, error) {
			return nil, errors.New("db down")
		},
	}

	c, rec := newContext(http.MethodGet, "/api/attendance/status", "", "", 4)
	_ = NewAttendanceHandler(stub).Status(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decode(t, rec.Body.Bytes())
	if resp["success"] != false || resp["message"] != "Failed to get status: db down" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAttendanceHandler_History(t *testing.T) {
	var gotDays *int
	stub := &stubAttendanceService{
		historyFn: func(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error) {
			gotDays = days
			return &ports.HistoryResult{
				Records: []ports.DayRecord{{
					AttendanceID: 1, Date: "2024-05-06", DayName: "Lunes", DayNumber: 6, MonthName: "Mayo",
					EntryTime: "07:05 AM", ExitTime: "04:10 PM", HoursWorked: 9.08, Status: domain.DayCompleted,
				}},
				Total: 1,
			}, nil
		},
	}
	h := NewAttendanceHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/attendance/history?days=7", "", "", 4)
	if err := h.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotDays == nil || *gotDays != 7 {
		t.Fatalf("days not forwarded: %v", gotDays)
	}

	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.TotalRecords != 1 || resp.History[0].DayName != "Lunes" || resp.History[0].Status != "completed" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newContext(http.MethodGet, "/api/attendance/history", "", "", 4)
	if err := h.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotDays != nil {
		t.Fatalf("expected nil days without query, got %d", *gotDays)
	}
}

func TestAttendanceHandler_History_BadDays(t *testing.T) {
	stub := &stubAttendanceService{
		historyFn: func(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error) {
			return nil, domain.ErrInvalidDays
		},
	}
	h := NewAttendanceHandler(stub)

	for _, q := range []string{"abc", "0"} {
		c, rec := newContext(http.MethodGet, "/api/attendance/history?days="+q, "", "", 4)
		_ = h.History(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("days=%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestAttendanceHandler_RequiresPrincipal(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})

	c, _ := newContext(http.MethodGet, "/api/attendance/status", "", "", 0)
	if code := httpStatus(h.Status(c)); code != http.StatusUnauthorized {
		t.Fatalf("status: expected 401, got %d", code)
	}
	c, _ = newContext(http.MethodGet, "/api/attendance/history", "", "", 0)
	if code := httpStatus(h.History(c)); code != http.StatusUnauthorized {
		t.Fatalf("history: expected 401, got %d", code)
	}
}
