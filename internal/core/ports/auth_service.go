package ports

import (
	"context"

	"github.com/dawam/attendance-system/internal/core/domain"
)

// AuthService covers employee and admin authentication plus the admin-only
// employee management operations.
type AuthService interface {
	// LoginEmployee verifies phone + password against an active employee.
	LoginEmployee(ctx context.Context, phone, password string) (*domain.Employee, error)
	// LoginAdmin verifies the shared admin password and issues a bearer token.
	LoginAdmin(ctx context.Context, password string) (string, error)
	RegisterEmployee(ctx context.Context, fullName, phone, password string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
}
