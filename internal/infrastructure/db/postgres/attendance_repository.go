package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

const attendanceColumns = `id, user_id, local_date, entry_time, exit_time`

type AttendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (user_id, local_date, entry_time, exit_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var exit *time.Time
	if rec.ExitTime != nil {
		t := rec.ExitTime.UTC()
		exit = &t
	}
	if err := q.QueryRow(ctx, query, rec.UserID, rec.LocalDate, rec.EntryTime.UTC(), exit).Scan(&rec.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAttendance
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) LatestInRange(ctx context.Context, userID int64, from, to time.Time) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1 AND entry_time >= $2 AND entry_time < $3
		ORDER BY entry_time DESC
		LIMIT 1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID, from.UTC(), to.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return rec, nil
}

// CloseShift locks the row, checks it is still open and sets exit_time.
func (r *AttendanceRepository) CloseShift(ctx context.Context, id int64, exit time.Time) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var closed *domain.AttendanceRecord
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var current *time.Time
		err := q.QueryRow(ctx, `SELECT exit_time FROM attendance WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAttendanceNotFound
		}
		if err != nil {
			return fmt.Errorf("lock attendance: %w", err)
		}
		if current != nil {
			return domain.ErrAlreadyClockedOut
		}

		closed, err = scanAttendance(q.QueryRow(ctx,
			`UPDATE attendance SET exit_time = $2 WHERE id = $1 RETURNING `+attendanceColumns,
			id, exit.UTC()))
		if err != nil {
			return fmt.Errorf("close shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter ports.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	where, args := attendanceWhere(filter)
	query := `SELECT ` + attendanceColumns + ` FROM attendance` + where + ` ORDER BY entry_time DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []*domain.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// attendanceWhere builds the WHERE clause for filter with positional args.
func attendanceWhere(f ports.AttendanceFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.UserID != 0 {
		add("user_id = $%d", f.UserID)
	}
	if !f.From.IsZero() {
		add("entry_time >= $%d", f.From.UTC())
	}
	if !f.To.IsZero() {
		add("entry_time < $%d", f.To.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAttendance(row pgx.Row) (*domain.AttendanceRecord, error) {
	var (
		rec  domain.AttendanceRecord
		exit *time.Time
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.LocalDate, &rec.EntryTime, &exit); err != nil {
		return nil, err
	}
	rec.EntryTime = rec.EntryTime.UTC()
	if exit != nil {
		t := exit.UTC()
		rec.ExitTime = &t
	}
	return &rec, nil
}
