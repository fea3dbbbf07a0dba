package ports

import (
	"context"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

// EventRepository persists the attendance audit trail.
type EventRepository interface {
	// InsertEvent stores an event. Inserting an ID twice is a no-op.
	InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error
	// ListByUser returns the newest events of a user first, at most limit.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error)
}
