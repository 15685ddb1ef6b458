package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
)

// AuthService implements employee login, admin login, and the admin-only
// employee management operations.
type AuthService struct {
	employees     ports.EmployeeRepository
	adminPassword string
	jwtSecret     string
	tokenTTL      time.Duration
}

func NewAuthService(employees ports.EmployeeRepository, adminPassword, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthService{
		employees:     employees,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
	}
}

// LoginEmployee verifies phone + password. Inactive employees cannot log in.
func (s *AuthService) LoginEmployee(ctx context.Context, phone, password string) (*domain.Employee, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}

	employee, err := s.employees.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !employee.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return employee, nil
}

// LoginAdmin compares against the configured admin password and issues a
// signed bearer token on success.
func (s *AuthService) LoginAdmin(_ context.Context, password string) (string, error) {
	if s.adminPassword == "" {
		return "", domain.ErrAdminNotConfigured
	}
	if password != s.adminPassword {
		return "", domain.ErrUnauthorized
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// RegisterEmployee hashes the password and stores a new active employee.
func (s *AuthService) RegisterEmployee(ctx context.Context, fullName, phone, password string) (*domain.Employee, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if fullName == "" || phone == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		FullName:     fullName,
		Phone:        phone,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	return s.employees.Create(ctx, employee)
}

// ListEmployees returns all employees, most recently created first.
func (s *AuthService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.employees.List(ctx)
}
