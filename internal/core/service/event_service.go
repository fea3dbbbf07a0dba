package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/pkg/metrics"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

var errEventMissingID = errors.New("audit event without id")

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *eventService) Process(ctx context.Context, ev domain.AttendanceEvent) error {
	if ev.ID == "" {
		metrics.EventsProcessedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process event: %w", errEventMissingID)
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		metrics.EventsProcessedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	metrics.EventsProcessedTotal.WithLabelValues("ok").Inc()
	s.log.Debug().
		Str("event_id", ev.ID).
		Int64("user_id", ev.UserID).
		Str("kind", string(ev.Kind)).
		Msg("audit event stored")

	return nil
}

// ListByUser returns the newest audit events of a user. limit is clamped to
// (0, maxEventLimit]; zero or negative selects the default.
func (s *eventService) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	events, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
