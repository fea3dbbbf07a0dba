package service

import (
	"context"
	"net/http"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// AttendanceService is the entry point the request layer talks to. It composes
// the status engine, the recorder and the history reporter.
type AttendanceService struct {
	engine   *StatusEngine
	recorder *Recorder
	history  *HistoryReporter
}

func NewAttendanceService(engine *StatusEngine, recorder *Recorder, history *HistoryReporter) *AttendanceService {
	return &AttendanceService{engine: engine, recorder: recorder, history: history}
}

var _ ports.AttendanceService = (*AttendanceService)(nil)

// ProcessAction only accepts POST with action "entry" or "exit".
func (s *AttendanceService) ProcessAction(ctx context.Context, method, action string, userID int64) ports.ActionResult {
	if method != http.MethodPost {
		return ports.ActionResult{Success: false, Message: "Method not allowed"}
	}
	if userID <= 0 {
		return ports.ActionResult{Success: false, Message: "User not authenticated"}
	}

	kind, ok := domain.ParseAction(action)
	if !ok {
		return ports.ActionResult{Success: false, Message: "Invalid action"}
	}

	if kind == domain.ActionExit {
		return s.recorder.RegisterExit(ctx, userID)
	}
	return s.recorder.RegisterEntry(ctx, userID)
}

func (s *AttendanceService) RegisterEntry(ctx context.Context, userID int64) ports.ActionResult {
	return s.recorder.RegisterEntry(ctx, userID)
}

func (s *AttendanceService) RegisterExit(ctx context.Context, userID int64) ports.ActionResult {
	return s.recorder.RegisterExit(ctx, userID)
}

func (s *AttendanceService) CurrentStatus(ctx context.Context, userID int64) (*ports.StatusView, error) {
	return s.engine.CurrentStatus(ctx, userID)
}

func (s *AttendanceService) History(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error) {
	return s.history.History(ctx, userID, days)
}
