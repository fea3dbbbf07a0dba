package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type mongoEvent struct {
	ID              string    `bson:"_id"`
	UserID          int64     `bson:"user_id"`
	RecordID        int64     `bson:"record_id"`
	Kind            string    `bson:"kind"`
	OccurredAt      time.Time `bson:"occurred_at"`
	OutsideSchedule bool      `bson:"outside_schedule"`
	ProcessedAt     time.Time `bson:"processed_at"`
}

// InsertEvent persists an event to the audit collection. The event ID is the
// document key, so a redelivered event is silently ignored.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEvent{
		ID:              event.ID,
		UserID:          event.UserID,
		RecordID:        event.RecordID,
		Kind:            string(event.Kind),
		OccurredAt:      event.OccurredAt.UTC(),
		OutsideSchedule: event.OutsideSchedule,
		ProcessedAt:     time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var docs []mongoEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]*domain.AttendanceEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.AttendanceEvent{
			ID:              d.ID,
			UserID:          d.UserID,
			RecordID:        d.RecordID,
			Kind:            domain.ActionKind(d.Kind),
			OccurredAt:      d.OccurredAt.UTC(),
			OutsideSchedule: d.OutsideSchedule,
		})
	}
	return events, nil
}
