package domain

import "time"

// Employee models a registered worker. Employees are created by admin action
// and never deleted; an inactive employee cannot log in.
type Employee struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
