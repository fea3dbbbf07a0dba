package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*domain.User
	findErr error
	listErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// seedUser stores an employee and returns its ID.
func (r *stubUserRepo) seedUser(name, email string) int64 {
	u, _ := r.Create(context.Background(), &domain.User{Name: name, Email: email, Role: domain.RoleEmployee})
	return u.ID
}

// stubAttendanceRepo mimics the unique (user_id, local_date) constraint and
// the conditional close of the real stores.
type stubAttendanceRepo struct {
	mu        sync.Mutex
	nextID    int64
	records   []*domain.AttendanceRecord
	createErr error
	latestErr error
	closeErr  error
	listErr   error
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{}
}

func cloneRecord(r *domain.AttendanceRecord) *domain.AttendanceRecord {
	clone := *r
	if r.ExitTime != nil {
		exit := *r.ExitTime
		clone.ExitTime = &exit
	}
	return &clone
}

func (r *stubAttendanceRepo) Create(_ context.Context, rec *domain.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.records {
		if existing.UserID == rec.UserID && existing.LocalDate == rec.LocalDate {
			return domain.ErrDuplicateAttendance
		}
	}
	r.nextID++
	rec.ID = r.nextID
	r.records = append(r.records, cloneRecord(rec))
	return nil
}

func (r *stubAttendanceRepo) LatestInRange(_ context.Context, userID int64, from, to time.Time) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latestErr != nil {
		return nil, r.latestErr
	}
	var latest *domain.AttendanceRecord
	for _, rec := range r.records {
		if rec.UserID != userID || rec.EntryTime.Before(from) || !rec.EntryTime.Before(to) {
			continue
		}
		if latest == nil || rec.EntryTime.After(latest.EntryTime) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, domain.ErrAttendanceNotFound
	}
	return cloneRecord(latest), nil
}

func (r *stubAttendanceRepo) CloseShift(_ context.Context, id int64, exit time.Time) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil {
		return nil, r.closeErr
	}
	for _, rec := range r.records {
		if rec.ID != id {
			continue
		}
		if rec.ExitTime != nil {
			return nil, domain.ErrAlreadyClockedOut
		}
		exit := exit
		rec.ExitTime = &exit
		return cloneRecord(rec), nil
	}
	return nil, domain.ErrAttendanceNotFound
}

func (r *stubAttendanceRepo) List(_ context.Context, f ports.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.AttendanceRecord
	for _, rec := range r.records {
		if f.UserID != 0 && rec.UserID != f.UserID {
			continue
		}
		if !f.From.IsZero() && rec.EntryTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !rec.EntryTime.Before(f.To) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.After(out[j].EntryTime) })
	return out, nil
}

// seed stores a record directly, bypassing the uniqueness check.
func (r *stubAttendanceRepo) seed(userID int64, entry time.Time, exit *time.Time) *domain.AttendanceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec := &domain.AttendanceRecord{
		ID:        r.nextID,
		UserID:    userID,
		LocalDate: entry.In(salvador).Format(timezone.DateLayout),
		EntryTime: entry.UTC(),
	}
	if exit != nil {
		e := exit.UTC()
		rec.ExitTime = &e
	}
	r.records = append(r.records, rec)
	return cloneRecord(rec)
}

func (r *stubAttendanceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type stubLocker struct {
	acquireErr error
	acquired   int
	released   int
}

func (l *stubLocker) Acquire(_ context.Context, _ int64) (func(context.Context) error, error) {
	if l.acquireErr != nil {
		return nil, l.acquireErr
	}
	l.acquired++
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.AttendanceEvent
}

func (p *stubPublisher) Publish(ev domain.AttendanceEvent) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Fixture: services wired over the stubs with a manual clock in
// America/El_Salvador (UTC-6, no DST).
// ---------------------------------------------------------------------------

var salvador = mustLocation("America/El_Salvador")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// local builds an instant from a local wall-clock time.
func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, salvador)
}

type fixture struct {
	clock      *timezone.ManualClock
	zone       *timezone.Zone
	users      *stubUserRepo
	attendance *stubAttendanceRepo
	locker     *stubLocker
	events     *stubPublisher
	engine     *StatusEngine
	recorder   *Recorder
	history    *HistoryReporter
	svc        *AttendanceService
	userID     int64
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{
		clock:      timezone.NewManualClock(now),
		users:      newStubUserRepo(),
		attendance: newStubAttendanceRepo(),
		locker:     &stubLocker{},
		events:     &stubPublisher{},
	}
	f.zone = timezone.New(salvador, f.clock)
	f.engine = NewStatusEngine(f.attendance, f.zone, domain.DefaultSchedule())
	f.recorder = NewRecorder(f.engine, f.users, f.attendance, f.locker, f.events, f.zone, zerolog.Nop())
	f.history = NewHistoryReporter(f.attendance, f.zone)
	f.svc = NewAttendanceService(f.engine, f.recorder, f.history)
	f.userID = f.users.seedUser("Ana", "ana@example.com")
	return f
}
