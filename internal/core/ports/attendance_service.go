package ports

import (
	"context"
	"io"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

// Notification types attached to action results for the clock UI.
const (
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// ClockLocker serialises clock actions of a single user across instances.
type ClockLocker interface {
	// Acquire returns domain.ErrClockBusy when another action holds the lock.
	Acquire(ctx context.Context, userID int64) (release func(context.Context) error, err error)
}

// StatusView is the current-day projection polled by the clock UI.
// String fields are empty when they do not apply to State.
type StatusView struct {
	State              domain.AttendanceState
	Message            string
	CanRegisterEntry   bool
	CanRegisterExit    bool
	HoursWorked        float64
	HoursWorkedDisplay string
	EntryTime          string
	ExitTime           string
	AttendanceID       int64
}

// ActionResult is the outcome of a clock action. Failures are results too:
// Success is false and Message explains why.
type ActionResult struct {
	Success          bool
	Message          string
	NotificationType string
	EntryTime        string
	ExitTime         string
	HoursWorked      *float64
	Date             string
	AttendanceID     int64
	OutsideSchedule  bool
	ScheduleMessage  string
}

// DayRecord is one row of a user's attendance history.
type DayRecord struct {
	AttendanceID int64
	Date         string
	DayName      string
	DayNumber    int
	MonthName    string
	EntryTime    string
	ExitTime     string
	HoursWorked  float64
	Status       domain.DayStatus
}

// HistoryResult is returned by History.
type HistoryResult struct {
	Records []DayRecord
	Total   int
}

// AttendanceService defines the clock use cases exposed to the request layer.
type AttendanceService interface {
	// ProcessAction validates the HTTP method and action selector and then
	// dispatches to RegisterEntry or RegisterExit.
	ProcessAction(ctx context.Context, method, action string, userID int64) ActionResult
	RegisterEntry(ctx context.Context, userID int64) ActionResult
	RegisterExit(ctx context.Context, userID int64) ActionResult
	CurrentStatus(ctx context.Context, userID int64) (*StatusView, error)
	// History returns every record when days is nil, otherwise the records of
	// the last *days local days including today.
	History(ctx context.Context, userID int64, days *int) (*HistoryResult, error)
}

// UserDayStat is one user's line in the daily dashboard.
type UserDayStat struct {
	UserID          int64
	Name            string
	Email           string
	Status          string
	EntryTime       string
	ExitTime        string
	HoursWorked     float64
	OutsideSchedule bool
}

// DailyStats aggregates every user's attendance for one local date.
type DailyStats struct {
	Date            string
	TotalUsers      int
	Present         int
	InProgress      int
	Completed       int
	Incomplete      int
	Absent          int
	OutsideSchedule int
	TotalHours      float64
	AverageHours    float64
	Users           []UserDayStat
}

// DashboardService serves the administrator views.
type DashboardService interface {
	// DailyStats accepts a YYYY-MM-DD local date; empty means today.
	DailyStats(ctx context.Context, date string) (*DailyStats, error)
}

// DailyStatsExporter renders daily stats as a downloadable document.
type DailyStatsExporter interface {
	ContentType() string
	Extension() string
	WriteDailyStats(w io.Writer, stats *DailyStats) error
}
