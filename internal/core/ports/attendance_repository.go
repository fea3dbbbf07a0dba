package ports

import (
	"context"
	"time"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

// AttendanceFilter carries the query parameters for listing records.
// Zero values mean "no constraint".
type AttendanceFilter struct {
	UserID int64     // 0 = every user
	From   time.Time // entry_time >= From
	To     time.Time // entry_time < To
}

// AttendanceRepository defines persistence operations for attendance records.
// Every listing is ordered by entry_time descending.
type AttendanceRepository interface {
	// Create inserts rec and assigns its ID. Returns domain.ErrDuplicateAttendance
	// when the user already has a record for rec.LocalDate.
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
	// LatestInRange returns the most recent record of the user whose entry_time
	// lies in [from, to), or domain.ErrAttendanceNotFound.
	LatestInRange(ctx context.Context, userID int64, from, to time.Time) (*domain.AttendanceRecord, error)
	// CloseShift sets exit_time on a record that is still open. Returns
	// domain.ErrAlreadyClockedOut if another request closed it first.
	CloseShift(ctx context.Context, id int64, exit time.Time) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]*domain.AttendanceRecord, error)
}
