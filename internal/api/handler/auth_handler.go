package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
)

// AuthHandler handles employee and admin authentication.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates an employee by phone and password.
//
// @Summary      Employee login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authRequest  true  "Phone and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /api/auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{OK: false})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{OK: false})
	}

	employee, err := h.auth.LoginEmployee(c.Request().Context(), req.Phone, req.Password)
	if err != nil {
		// The login response intentionally carries no message: a bare
		// {ok:false} for both unknown phone and wrong password.
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrInvalidRequest) {
			return c.JSON(http.StatusUnauthorized, authResponse{OK: false})
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		OK: true,
		Employee: &employeePayload{
			ID:       employee.ID,
			FullName: employee.FullName,
			Phone:    employee.Phone,
		},
	})
}

// AdminLogin verifies the admin password and returns a bearer token.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin password"
// @Success      200   {object}  adminLoginResponse
// @Failure      401   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Router       /api/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.auth.LoginAdmin(c.Request().Context(), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminLoginResponse{OK: true, Token: token})
}
