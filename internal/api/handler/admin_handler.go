package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// AdminHandler serves the administrator endpoints. Every route is behind
// RBAC(admin).
type AdminHandler struct {
	auth      ports.AuthService
	dashboard ports.DashboardService
	events    ports.EventService
	exporter  ports.DailyStatsExporter
}

func NewAdminHandler(
	auth ports.AuthService,
	dashboard ports.DashboardService,
	events ports.EventService,
	exporter ports.DailyStatsExporter,
) *AdminHandler {
	return &AdminHandler{auth: auth, dashboard: dashboard, events: events, exporter: exporter}
}

// CreateUser registers a new employee or administrator.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Dashboard returns the daily statistics for one local date (today by default).
//
// @Summary      Daily attendance dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Local date, YYYY-MM-DD"
// @Success      200   {object}  dailyStatsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.dailyStats(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDailyStatsResponse(stats))
}

// Export returns the same statistics as a spreadsheet download.
//
// @Summary      Export the daily dashboard
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        date  query  string  false  "Local date, YYYY-MM-DD"
// @Success      200
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/dashboard/export [get]
func (h *AdminHandler) Export(c echo.Context) error {
	stats, err := h.dailyStats(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteDailyStats(&buf, stats); err != nil {
		return fmt.Errorf("export daily stats: %w", err)
	}

	filename := fmt.Sprintf("attendance-%s.%s", stats.Date, h.exporter.Extension())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, h.exporter.ContentType(), buf.Bytes())
}

// Events lists the audit trail of one user, newest first.
//
// @Summary      User audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true   "User ID"
// @Param        limit  query     int  false  "Maximum events (default 50)"
// @Success      200    {object}  eventsResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /admin/users/{id}/events [get]
func (h *AdminHandler) Events(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var q eventsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	events, err := h.events.ListByUser(c.Request().Context(), userID, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventsResponse(userID, events))
}

func (h *AdminHandler) dailyStats(c echo.Context) (*ports.DailyStats, error) {
	var q dashboardQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.dashboard.DailyStats(c.Request().Context(), q.Date)
}
