package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
)

// History labels are rendered in Spanish, the language of the clock UI.
var dayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
}

var monthNames = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// HistoryReporter turns stored records into localized history rows.
type HistoryReporter struct {
	repo ports.AttendanceRepository
	zone *timezone.Zone
}

func NewHistoryReporter(repo ports.AttendanceRepository, zone *timezone.Zone) *HistoryReporter {
	return &HistoryReporter{repo: repo, zone: zone}
}

// History returns the user's records newest first. A nil days returns every
// record; otherwise only records whose local entry date lies within the last
// *days local days, today included.
func (h *HistoryReporter) History(ctx context.Context, userID int64, days *int) (*ports.HistoryResult, error) {
	filter := ports.AttendanceFilter{UserID: userID}
	if days != nil {
		if *days < 1 {
			return nil, domain.ErrInvalidDays
		}
		today := h.zone.Today()
		first := time.Date(today.Year(), today.Month(), today.Day()-(*days-1), 0, 0, 0, 0, h.zone.Location())
		filter.From, _ = h.zone.DayBounds(first)
		_, filter.To = h.zone.DayBounds(today)
	}

	recs, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	now := h.zone.NowUTC()
	today := h.zone.LocalDate(now)

	rows := make([]ports.DayRecord, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, h.dayRecord(rec, now, today))
	}
	return &ports.HistoryResult{Records: rows, Total: len(rows)}, nil
}

func (h *HistoryReporter) dayRecord(rec *domain.AttendanceRecord, now time.Time, today string) ports.DayRecord {
	entry := h.zone.Local(rec.EntryTime)
	row := ports.DayRecord{
		AttendanceID: rec.ID,
		Date:         entry.Format(timezone.DateLayout),
		DayName:      dayNames[entry.Weekday()],
		DayNumber:    entry.Day(),
		MonthName:    monthNames[entry.Month()],
		EntryTime:    h.zone.Display(rec.EntryTime),
	}

	switch {
	case !rec.IsOpen():
		row.ExitTime = h.zone.Display(*rec.ExitTime)
		row.HoursWorked = domain.Hours(rec.Worked(now))
		row.Status = domain.DayCompleted
	case row.Date == today:
		row.HoursWorked = domain.Hours(rec.Worked(now))
		row.Status = domain.DayInProgress
	default:
		// Abandoned shift from a previous day: hours are not extrapolated.
		row.Status = domain.DayIncomplete
	}
	return row
}
