package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

type AttendanceRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{db: db, col: db.Collection(collectionAttendance)}
}

type mongoAttendance struct {
	ID        int64      `bson:"_id"`
	UserID    int64      `bson:"user_id"`
	LocalDate string     `bson:"local_date"`
	EntryTime time.Time  `bson:"entry_time"`
	ExitTime  *time.Time `bson:"exit_time"`
}

func (m mongoAttendance) toDomain() *domain.AttendanceRecord {
	rec := &domain.AttendanceRecord{
		ID:        m.ID,
		UserID:    m.UserID,
		LocalDate: m.LocalDate,
		EntryTime: m.EntryTime.UTC(),
	}
	if m.ExitTime != nil {
		exit := m.ExitTime.UTC()
		rec.ExitTime = &exit
	}
	return rec
}

// Create inserts a new attendance document with a sequential ID.
func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionAttendance)
	if err != nil {
		return err
	}

	doc := mongoAttendance{
		ID:        id,
		UserID:    rec.UserID,
		LocalDate: rec.LocalDate,
		EntryTime: rec.EntryTime.UTC(),
		ExitTime:  rec.ExitTime,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAttendance
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	rec.ID = id
	return nil
}

// LatestInRange returns the newest record of the user with entry_time in [from, to).
func (r *AttendanceRepository) LatestInRange(ctx context.Context, userID int64, from, to time.Time) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := attendanceFilter(ports.AttendanceFilter{UserID: userID, From: from, To: to})
	opts := options.FindOne().SetSort(bson.D{{Key: "entry_time", Value: -1}})

	var doc mongoAttendance
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return doc.toDomain(), nil
}

// CloseShift sets exit_time only while it is still null, so two concurrent
// exits cannot both succeed.
func (r *AttendanceRepository) CloseShift(ctx context.Context, id int64, exit time.Time) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "exit_time": nil}
	update := bson.M{"$set": bson.M{"exit_time": exit.UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoAttendance
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("close shift: %w", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("close shift: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrAttendanceNotFound
	}
	return nil, domain.ErrAlreadyClockedOut
}

func (r *AttendanceRepository) List(ctx context.Context, filter ports.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "entry_time", Value: -1}})
	cur, err := r.col.Find(ctx, attendanceFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	var docs []mongoAttendance
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	records := make([]*domain.AttendanceRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toDomain())
	}
	return records, nil
}

func attendanceFilter(f ports.AttendanceFilter) bson.M {
	filter := bson.M{}
	if f.UserID != 0 {
		filter["user_id"] = f.UserID
	}

	entry := bson.M{}
	if !f.From.IsZero() {
		entry["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		entry["$lt"] = f.To.UTC()
	}
	if len(entry) > 0 {
		filter["entry_time"] = entry
	}
	return filter
}
