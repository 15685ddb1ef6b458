package ports

import "context"

// CheckInResult is returned by CheckIn. Already is true when an open shift
// existed and no new record was created (the client auto-invokes check-in
// right after login, so repeated calls must be idempotent).
type CheckInResult struct {
	AttendanceID string
	Time         string
	Already      bool
}

// CheckOutResult is returned by CheckOut.
type CheckOutResult struct {
	Time          string
	ShiftHours    float64
	TotalHours30d float64
}

// DaySummary is the aggregated hours for one local calendar day.
type DaySummary struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// SummaryResult is the rolling-window aggregate: one entry per calendar day
// with activity, most recent check-in first, plus the grand total.
type SummaryResult struct {
	Days       []DaySummary `json:"days"`
	TotalHours float64      `json:"total_hours"`
}

// AttendanceService defines the shift engine use-cases.
type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID string) (*CheckInResult, error)
	CheckOut(ctx context.Context, employeeID string) (*CheckOutResult, error)
	Summary(ctx context.Context, employeeID string) (*SummaryResult, error)
}
