package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
)

const statusAbsent = "absent"

// DashboardService aggregates the attendance of every user for one day.
type DashboardService struct {
	users      ports.UserRepository
	attendance ports.AttendanceRepository
	engine     *StatusEngine
	zone       *timezone.Zone
}

func NewDashboardService(users ports.UserRepository, attendance ports.AttendanceRepository, engine *StatusEngine, zone *timezone.Zone) *DashboardService {
	return &DashboardService{users: users, attendance: attendance, engine: engine, zone: zone}
}

var _ ports.DashboardService = (*DashboardService)(nil)

func (s *DashboardService) DailyStats(ctx context.Context, date string) (*ports.DailyStats, error) {
	day := s.zone.Today()
	if date != "" {
		parsed, err := s.zone.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidDate, date)
		}
		day = parsed
	}
	from, to := s.zone.DayBounds(day)

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily stats: list users: %w", err)
	}
	recs, err := s.attendance.List(ctx, ports.AttendanceFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("daily stats: list attendance: %w", err)
	}

	// Records come newest first; keep the latest per user.
	latest := make(map[int64]*domain.AttendanceRecord, len(recs))
	for _, rec := range recs {
		if _, seen := latest[rec.UserID]; !seen {
			latest[rec.UserID] = rec
		}
	}

	now := s.zone.NowUTC()
	isToday := s.zone.LocalDate(now) == s.zone.LocalDate(day)

	stats := &ports.DailyStats{
		Date:       s.zone.LocalDate(day),
		TotalUsers: len(users),
		Users:      make([]ports.UserDayStat, 0, len(users)),
	}
	for _, u := range users {
		line := s.userLine(u, latest[u.ID], now, isToday)
		switch line.Status {
		case statusAbsent:
			stats.Absent++
		case string(domain.DayCompleted):
			stats.Completed++
		case string(domain.DayInProgress):
			stats.InProgress++
		case string(domain.DayIncomplete):
			stats.Incomplete++
		}
		if line.Status != statusAbsent {
			stats.Present++
		}
		if line.OutsideSchedule {
			stats.OutsideSchedule++
		}
		stats.TotalHours += line.HoursWorked
		stats.Users = append(stats.Users, line)
	}

	stats.TotalHours = round2(stats.TotalHours)
	if stats.Present > 0 {
		stats.AverageHours = round2(stats.TotalHours / float64(stats.Present))
	}
	return stats, nil
}

func (s *DashboardService) userLine(u *domain.User, rec *domain.AttendanceRecord, now time.Time, isToday bool) ports.UserDayStat {
	line := ports.UserDayStat{UserID: u.ID, Name: u.Name, Email: u.Email, Status: statusAbsent}
	if rec == nil {
		return line
	}

	line.EntryTime = s.zone.Display(rec.EntryTime)
	line.OutsideSchedule, _ = s.engine.IsOutsideSchedule(domain.ActionEntry, rec.EntryTime)

	switch {
	case !rec.IsOpen():
		line.Status = string(domain.DayCompleted)
		line.ExitTime = s.zone.Display(*rec.ExitTime)
		line.HoursWorked = domain.Hours(rec.Worked(now))
	case isToday:
		line.Status = string(domain.DayInProgress)
		line.HoursWorked = domain.Hours(rec.Worked(now))
	default:
		line.Status = string(domain.DayIncomplete)
	}
	return line
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
