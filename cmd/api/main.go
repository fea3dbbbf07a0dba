// Command api runs the time-clock HTTP service.
//
// @title                       Time Clock API
// @version                     1.0
// @description                 Employee entry/exit registration, attendance history and daily dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/api"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/api/handler"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/service"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/timezone"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/config"
	mongostore "github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/db/mongo"
	pgstore "github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/db/postgres"
	redisstore "github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/db/redis"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/queue"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/infrastructure/report"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// storage groups the repositories of the selected driver.
type storage struct {
	users      ports.UserRepository
	attendance ports.AttendanceRepository
	events     ports.EventRepository
	ping       handler.DependencyCheck
	close      func(context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "timeclock"})
	if err := run(ctx, cfg); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	zone, err := timezone.Load(cfg.Timezone, timezone.SystemClock{})
	if err != nil {
		return err
	}
	schedule, err := cfg.Schedule.Schedule()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close(context.Background())

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Services ---
	authService := service.NewAuthService(store.users, cfg.JWTSecret, cfg.TokenTTL)
	created, err := authService.EnsureAdmin(ctx, ports.CreateUserInput{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("bootstrap administrator created")
	}

	eventService := service.NewEventService(store.events, log)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, eventService, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	engine := service.NewStatusEngine(store.attendance, zone, schedule)
	recorder := service.NewRecorder(
		engine,
		store.users,
		store.attendance,
		redisstore.NewClockLocker(rdb, cfg.Redis.LockTTL),
		dispatcher,
		zone,
		log,
	)
	attendanceService := service.NewAttendanceService(engine, recorder, service.NewHistoryReporter(store.attendance, zone))
	dashboardService := service.NewDashboardService(store.users, store.attendance, engine, zone)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:       authService,
		Attendance: attendanceService,
		Dashboard:  dashboardService,
		Events:     eventService,
		Exporter:   report.NewXLSXExporter(),
		Checks: map[string]handler.DependencyCheck{
			cfg.StorageDriver: store.ping,
			"redis":           func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		},
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageDriver).
			Str("timezone", cfg.Timezone).
			Str("schedule", schedule.StandardEntry.String()+"-"+schedule.StandardExit.String()).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("audit workers drained")

	return serveErr
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := pgstore.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			users:      pgstore.NewUserRepository(db),
			attendance: pgstore.NewAttendanceRepository(db),
			events:     pgstore.NewEventRepository(db),
			ping:       func(ctx context.Context) error { return db.Ping(ctx) },
			close:      func(context.Context) { db.Close() },
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &storage{
			users:      mongostore.NewUserRepository(db),
			attendance: mongostore.NewAttendanceRepository(db),
			events:     mongostore.NewEventRepository(db),
			ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:      func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
}
