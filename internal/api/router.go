package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/docs"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/api/handler"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/api/middleware"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Services are built in main.
type Deps struct {
	Auth       ports.AuthService
	Attendance ports.AttendanceService
	Dashboard  ports.DashboardService
	Events     ports.EventService
	Exporter   ports.DailyStatsExporter
	Checks     map[string]handler.DependencyCheck
	JWTSecret  string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("timeclock"))

	// --- Ops (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authMiddleware := middleware.Auth(d.JWTSecret)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Attendance ---
	attendanceHandler := handler.NewAttendanceHandler(d.Attendance)
	att := e.Group("/api/attendance", authMiddleware)
	att.Any("/action", attendanceHandler.Action)
	att.GET("/status", attendanceHandler.Status)
	att.GET("/history", attendanceHandler.History)

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(d.Auth, d.Dashboard, d.Events, d.Exporter)
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id/events", adminHandler.Events)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/dashboard/export", adminHandler.Export)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
