package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawam/attendance-system/internal/api/metrics"
	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
)

// AttendanceHandler exposes the check-in/check-out/summary operations.
type AttendanceHandler struct {
	attendance ports.AttendanceService
}

func NewAttendanceHandler(attendance ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// CheckIn opens a shift, or reports the already-open one.
//
// @Summary      Check in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body      checkInRequest  true  "Employee id"
// @Success      200   {object}  checkInResponse
// @Failure      400   {object}  errorEnvelope
// @Router       /api/checkin [post]
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.attendance.CheckIn(c.Request().Context(), req.EmployeeID)
	if err != nil {
		return err
	}

	if result.Already {
		metrics.CheckInsTotal.WithLabelValues("already").Inc()
	} else {
		metrics.CheckInsTotal.WithLabelValues("new").Inc()
	}

	return c.JSON(http.StatusOK, checkInResponse{
		OK:           true,
		AttendanceID: result.AttendanceID,
		Time:         result.Time,
		Already:      result.Already,
	})
}

// CheckOut closes the open shift and returns the computed hours.
//
// @Summary      Check out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body      checkOutRequest  true  "Employee id"
// @Success      200   {object}  checkOutResponse
// @Failure      400   {object}  errorEnvelope
// @Router       /api/checkout [post]
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	var req checkOutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.attendance.CheckOut(c.Request().Context(), req.EmployeeID)
	if err != nil {
		if err == domain.ErrNoOpenShift {
			metrics.CheckOutsTotal.WithLabelValues("no_open_shift").Inc()
		}
		return err
	}

	metrics.CheckOutsTotal.WithLabelValues("closed").Inc()
	metrics.ShiftHours.Observe(result.ShiftHours)

	return c.JSON(http.StatusOK, checkOutResponse{
		OK:            true,
		Time:          result.Time,
		ShiftHours:    result.ShiftHours,
		TotalHours30d: result.TotalHours30d,
	})
}

// Summary returns the rolling 30-day per-day hours and the grand total.
//
// @Summary      30-day summary
// @Tags         attendance
// @Produce      json
// @Param        employee_id  query     string  true  "Employee id"
// @Success      200          {object}  summaryResponse
// @Failure      400          {object}  errorEnvelope
// @Router       /api/summary [get]
func (h *AttendanceHandler) Summary(c echo.Context) error {
	employeeID := c.QueryParam("employee_id")

	result, err := h.attendance.Summary(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}

	days := make([]dayPayload, 0, len(result.Days))
	for _, d := range result.Days {
		days = append(days, dayPayload{Date: d.Date, Hours: d.Hours})
	}

	return c.JSON(http.StatusOK, summaryResponse{
		OK:         true,
		Days:       days,
		TotalHours: result.TotalHours,
	})
}
