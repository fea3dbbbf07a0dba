package handler

import (
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// --- Service result → HTTP response ---

func toActionResponse(r ports.ActionResult) actionResponse {
	resp := actionResponse{
		Success:          r.Success,
		Message:          r.Message,
		NotificationType: r.NotificationType,
		EntryTime:        r.EntryTime,
		ExitTime:         r.ExitTime,
		HoursWorked:      r.HoursWorked,
		Date:             r.Date,
		AttendanceID:     r.AttendanceID,
		ScheduleMessage:  r.ScheduleMessage,
	}
	if r.Success {
		outside := r.OutsideSchedule
		resp.OutsideSchedule = &outside
	}
	return resp
}

func toStatusBody(v *ports.StatusView) *statusBody {
	return &statusBody{
		Status:             v.State.Status(),
		State:              string(v.State),
		Message:            v.Message,
		CanRegisterEntry:   v.CanRegisterEntry,
		CanRegisterExit:    v.CanRegisterExit,
		HoursWorked:        v.HoursWorked,
		HoursWorkedDisplay: v.HoursWorkedDisplay,
		EntryTime:          v.EntryTime,
		ExitTime:           v.ExitTime,
		AttendanceID:       v.AttendanceID,
	}
}

func toHistoryResponse(h *ports.HistoryResult) historyResponse {
	rows := make([]dayRecordResponse, 0, len(h.Records))
	for _, r := range h.Records {
		rows = append(rows, dayRecordResponse{
			AttendanceID: r.AttendanceID,
			Date:         r.Date,
			DayName:      r.DayName,
			DayNumber:    r.DayNumber,
			MonthName:    r.MonthName,
			EntryTime:    r.EntryTime,
			ExitTime:     r.ExitTime,
			HoursWorked:  r.HoursWorked,
			Status:       string(r.Status),
		})
	}
	return historyResponse{Success: true, History: rows, TotalRecords: h.Total}
}
