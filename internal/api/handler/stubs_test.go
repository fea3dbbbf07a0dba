package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

type stubAuthService struct {
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	createUserFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getUserFn    func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

type stubAttendanceService struct {
	processFn func(ctx context.Context, method, action string, userID int64) ports.ActionResult
	statusFn  func(ctx context.Context, userID int64) (*ports.StatusView, error)
	historyFn func(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error)
}

func (s *stubAttendanceService) ProcessAction(ctx context.Context, method, action string, userID int64) ports.ActionResult {
	return s.processFn(ctx, method, action, userID)
}

func (s *stubAttendanceService) RegisterEntry(ctx context.Context, userID int64) ports.ActionResult {
	return s.processFn(ctx, "POST", string(domain.ActionEntry), userID)
}

func (s *stubAttendanceService) RegisterExit(ctx context.Context, userID int64) ports.ActionResult {
	return s.processFn(ctx, "POST", string(domain.ActionExit), userID)
}

func (s *stubAttendanceService) CurrentStatus(ctx context.Context, userID int64) (*ports.StatusView, error) {
	return s.statusFn(ctx, userID)
}

func (s *stubAttendanceService) History(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error) {
	return s.historyFn(ctx, userID, days)
}

type stubDashboardService struct {
	statsFn func(ctx context.Context, date string) (*ports.DailyStats, error)
}

func (s *stubDashboardService) DailyStats(ctx context.Context, date string) (*ports.DailyStats, error) {
	return s.statsFn(ctx, date)
}

type stubEventService struct {
	listFn func(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error)
}

func (s *stubEventService) Process(context.Context, domain.AttendanceEvent) error { return nil }

func (s *stubEventService) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error) {
	return s.listFn(ctx, userID, limit)
}

type stubExporter struct {
	fail bool
}

func (stubExporter) ContentType() string { return "text/csv" }
func (stubExporter) Extension() string   { return "csv" }

func (s stubExporter) WriteDailyStats(w io.Writer, stats *ports.DailyStats) error {
	if s.fail {
		return errors.New("disk full")
	}
	_, err := io.WriteString(w, "date,"+stats.Date)
	return err
}

// newContext builds an echo context with the validator installed and, when
// userID > 0, the principal the Auth middleware would have set.
func newContext(method, target, body, contentType string, userID int64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID > 0 {
		c.Set("user_id", userID)
		c.Set("role", domain.RoleEmployee)
	}
	return c, rec
}

// httpStatus extracts the status code of an *echo.HTTPError, 0 otherwise.
func httpStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
