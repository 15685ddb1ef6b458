package domain

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidRequest = errors.New("invalid request")
var ErrNoOpenShift = errors.New("no open shift")
var ErrShiftAlreadyOpen = errors.New("shift already open")
var ErrEmployeeNotFound = errors.New("employee not found")
var ErrPhoneExists = errors.New("phone already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("unauthorized")
var ErrAdminNotConfigured = errors.New("admin password not configured")

// AttendanceRecord is one shift instance. A record is created OPEN by a
// check-in (CheckOutAt == nil) and transitions exactly once to CLOSED via a
// check-out; closed records are immutable.
type AttendanceRecord struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	EmployeeID string     `json:"employee_id" bson:"employee_id"`
	CheckInAt  time.Time  `json:"check_in_at" bson:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at" bson:"check_out_at"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// Open reports whether the shift has not been checked out yet.
func (r *AttendanceRecord) Open() bool {
	return r.CheckOutAt == nil
}

// Duration returns the shift's elapsed wall-clock time. Open records and
// records with inverted timestamps (clock skew) yield zero, never a negative.
func (r *AttendanceRecord) Duration() time.Duration {
	if r.CheckOutAt == nil {
		return 0
	}
	d := r.CheckOutAt.Sub(r.CheckInAt)
	if d < 0 {
		return 0
	}
	return d
}

// Hours returns the shift duration in hours rounded to 2 decimals.
func (r *AttendanceRecord) Hours() float64 {
	return RoundHours(r.Duration())
}

// RoundHours converts a duration to hours rounded to 2 decimal places.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
