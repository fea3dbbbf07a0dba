package handler

import (
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

type dashboardQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type eventsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
}

type userDayResponse struct {
	UserID          int64   `json:"user_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Status          string  `json:"status"`
	EntryTime       string  `json:"entry_time,omitempty"`
	ExitTime        string  `json:"exit_time,omitempty"`
	HoursWorked     float64 `json:"hours_worked"`
	OutsideSchedule bool    `json:"outside_schedule"`
}

type dailyStatsResponse struct {
	Date            string            `json:"date"`
	TotalUsers      int               `json:"total_users"`
	Present         int               `json:"present"`
	InProgress      int               `json:"in_progress"`
	Completed       int               `json:"completed"`
	Incomplete      int               `json:"incomplete"`
	Absent          int               `json:"absent"`
	OutsideSchedule int               `json:"outside_schedule"`
	TotalHours      float64           `json:"total_hours"`
	AverageHours    float64           `json:"average_hours"`
	Users           []userDayResponse `json:"users"`
}

type eventResponse struct {
	ID              string    `json:"id"`
	RecordID        int64     `json:"record_id"`
	Kind            string    `json:"kind"`
	OccurredAt      time.Time `json:"occurred_at"`
	OutsideSchedule bool      `json:"outside_schedule"`
}

type eventsResponse struct {
	UserID int64           `json:"user_id"`
	Events []eventResponse `json:"events"`
}

func toDailyStatsResponse(s *ports.DailyStats) dailyStatsResponse {
	users := make([]userDayResponse, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, userDayResponse{
			UserID:          u.UserID,
			Name:            u.Name,
			Email:           u.Email,
			Status:          u.Status,
			EntryTime:       u.EntryTime,
			ExitTime:        u.ExitTime,
			HoursWorked:     u.HoursWorked,
			OutsideSchedule: u.OutsideSchedule,
		})
	}
	return dailyStatsResponse{
		Date:            s.Date,
		TotalUsers:      s.TotalUsers,
		Present:         s.Present,
		InProgress:      s.InProgress,
		Completed:       s.Completed,
		Incomplete:      s.Incomplete,
		Absent:          s.Absent,
		OutsideSchedule: s.OutsideSchedule,
		TotalHours:      s.TotalHours,
		AverageHours:    s.AverageHours,
		Users:           users,
	}
}

func toEventsResponse(userID int64, events []*domain.AttendanceEvent) eventsResponse {
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, eventResponse{
			ID:              ev.ID,
			RecordID:        ev.RecordID,
			Kind:            string(ev.Kind),
			OccurredAt:      ev.OccurredAt.UTC(),
			OutsideSchedule: ev.OutsideSchedule,
		})
	}
	return eventsResponse{UserID: userID, Events: out}
}
