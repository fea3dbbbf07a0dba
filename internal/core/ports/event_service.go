package ports

import (
	"context"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

// EventService processes audit events handed over by the dispatcher.
type EventService interface {
	Process(ctx context.Context, event domain.AttendanceEvent) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error)
}

// EventPublisher accepts audit events for asynchronous processing. Publish
// must not block the clock action that produced the event.
type EventPublisher interface {
	Publish(event domain.AttendanceEvent)
}
