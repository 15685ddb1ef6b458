package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawam/attendance-system/internal/core/ports"
)

// AdminHandler exposes the admin-only employee management endpoints. Routes
// are guarded by the admin bearer middleware.
type AdminHandler struct {
	auth ports.AuthService
}

func NewAdminHandler(auth ports.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// CreateEmployee registers a new employee.
//
// @Summary      Register a new employee
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /api/admin/employees [post]
func (h *AdminHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.auth.RegisterEmployee(c.Request().Context(), req.FullName, req.Phone, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// ListEmployees returns all registered employees.
//
// @Summary      List employees
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeListResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /api/admin/employees [get]
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	employees, err := h.auth.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]employeeItem, 0, len(employees))
	for _, e := range employees {
		items = append(items, employeeItem{
			ID:       e.ID,
			FullName: e.FullName,
			Phone:    e.Phone,
			IsActive: e.IsActive,
		})
	}

	return c.JSON(http.StatusOK, employeeListResponse{OK: true, Employees: items})
}
