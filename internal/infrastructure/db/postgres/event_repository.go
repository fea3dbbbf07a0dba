package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// EventRepository implements ports.EventRepository on Postgres.
type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent stores event; an ID that already exists is ignored.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}

	q := GetQuerier(ctx, r.db)
	_, err = q.Exec(ctx, `
		INSERT INTO attendance_events (id, user_id, record_id, kind, occurred_at, outside_schedule)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		id, event.UserID, event.RecordID, string(event.Kind), event.OccurredAt.UTC(), event.OutsideSchedule)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id::text, user_id, record_id, kind, occurred_at, outside_schedule
		FROM attendance_events
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.AttendanceEvent
	for rows.Next() {
		var (
			ev   domain.AttendanceEvent
			kind string
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.RecordID, &kind, &ev.OccurredAt, &ev.OutsideSchedule); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = domain.ActionKind(kind)
		ev.OccurredAt = ev.OccurredAt.UTC()
		events = append(events, &ev)
	}
	return events, rows.Err()
}
