package ports

import (
	"context"

	"github.com/dawam/attendance-system/internal/core/domain"
)

// EmployeeRepository defines persistence for employee identities.
type EmployeeRepository interface {
	// Create inserts a new employee. Phone is a unique natural key; a
	// duplicate surfaces as domain.ErrPhoneExists.
	Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	// List returns all employees, most recently created first.
	List(ctx context.Context) ([]*domain.Employee, error)
}
