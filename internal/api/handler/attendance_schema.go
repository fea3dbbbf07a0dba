package handler

// errorResponse is the standard error envelope returned by the echo error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// Attendance endpoints answer with a success flag instead of HTTP errors so
// the clock UI can show the message as a notification.

type actionResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	NotificationType string   `json:"notification_type,omitempty"`
	EntryTime        string   `json:"entry_time,omitempty"`
	ExitTime         string   `json:"exit_time,omitempty"`
	HoursWorked      *float64 `json:"hours_worked,omitempty"`
	Date             string   `json:"date,omitempty"`
	AttendanceID     int64    `json:"attendance_id,omitempty"`
	OutsideSchedule  *bool    `json:"outside_schedule,omitempty"`
	ScheduleMessage  string   `json:"schedule_message,omitempty"`
}

type statusBody struct {
	Status             string  `json:"status"`
	State              string  `json:"state"`
	Message            string  `json:"message"`
	CanRegisterEntry   bool    `json:"can_register_entry"`
	CanRegisterExit    bool    `json:"can_register_exit"`
	HoursWorked        float64 `json:"hours_worked"`
	HoursWorkedDisplay string  `json:"hours_worked_display,omitempty"`
	EntryTime          string  `json:"entry_time,omitempty"`
	ExitTime           string  `json:"exit_time,omitempty"`
	AttendanceID       int64   `json:"attendance_id,omitempty"`
}

type statusResponse struct {
	Success bool        `json:"success"`
	Status  *statusBody `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
}

type dayRecordResponse struct {
	AttendanceID int64   `json:"attendance_id"`
	Date         string  `json:"date"`
	DayName      string  `json:"day_name"`
	DayNumber    int     `json:"day_number"`
	MonthName    string  `json:"month_name"`
	EntryTime    string  `json:"entry_time"`
	ExitTime     string  `json:"exit_time,omitempty"`
	HoursWorked  float64 `json:"hours_worked"`
	Status       string  `json:"status"`
}

type historyResponse struct {
	Success      bool                `json:"success"`
	History      []dayRecordResponse `json:"history"`
	TotalRecords int                 `json:"total_records"`
	Message      string              `json:"message,omitempty"`
}

// failureResponse is used by status and history when the lookup itself fails.
type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
