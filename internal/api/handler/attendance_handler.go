package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/ports"
)

// AttendanceHandler serves the clock endpoints used by employees.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Action handles /api/attendance/action. Any method reaches the handler so
// that a wrong one gets a structured answer instead of a bare 405.
//
// @Summary      Clock in or out
// @Tags         attendance
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        action  formData  string  true  "entry or exit"
// @Success      200     {object}  actionResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/attendance/action [post]
func (h *AttendanceHandler) Action(c echo.Context) error {
	result := h.service.ProcessAction(
		c.Request().Context(),
		c.Request().Method,
		c.FormValue("action"),
		ctxUserID(c),
	)
	return c.JSON(http.StatusOK, toActionResponse(result))
}

// Status handles GET /api/attendance/status, polled by the live timer.
//
// @Summary      Current attendance status
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  failureResponse
// @Router       /api/attendance/status [get]
func (h *AttendanceHandler) Status(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	view, err := h.service.CurrentStatus(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, failureResponse{
			Message: "Failed to get status: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, statusResponse{Success: true, Status: toStatusBody(view)})
}

// History handles GET /api/attendance/history. Without days every record is
// returned.
//
// @Summary      Attendance history
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Number of local days including today"
// @Success      200   {object}  historyResponse
// @Failure      400   {object}  failureResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  failureResponse
// @Router       /api/attendance/history [get]
func (h *AttendanceHandler) History(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var days *int
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, failureResponse{Message: "days must be an integer"})
		}
		days = &n
	}

	result, err := h.service.History(c.Request().Context(), userID, days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDays) {
			return c.JSON(http.StatusBadRequest, failureResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, failureResponse{
			Message: "Failed to get history: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, toHistoryResponse(result))
}
