package ports

import "context"

// CheckInEvent is emitted when a genuinely new shift is opened (idempotent
// replays do not notify).
type CheckInEvent struct {
	EmployeeID   string
	EmployeeName string
	Time         string
}

// CheckOutEvent is emitted when a shift is closed, carrying the computed
// metrics so the notifier never touches the ledger.
type CheckOutEvent struct {
	EmployeeID    string
	EmployeeName  string
	Time          string
	ShiftHours    float64
	TotalHours30d float64
}

// Notifier delivers attendance events to the owner. Delivery is best-effort:
// failures are logged by the caller and never reach the request path.
type Notifier interface {
	NotifyCheckIn(ctx context.Context, event CheckInEvent) error
	NotifyCheckOut(ctx context.Context, event CheckOutEvent) error
}
