package ports

import (
	"context"
	"time"

	"github.com/dawam/attendance-system/internal/core/domain"
)

// AttendanceRepository is the shift ledger contract. Records are append-only:
// the only permitted mutation is closing an open record, and Close must be a
// conditional update so concurrent check-outs cannot close twice.
type AttendanceRepository interface {
	// FindOpen returns the employee's most recent record with no check-out,
	// or domain.ErrNoOpenShift when every record is closed.
	FindOpen(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error)

	// CreateOpen appends a new open record and returns its id. The store
	// enforces at-most-one-open-shift per employee; a concurrent winner
	// surfaces as domain.ErrShiftAlreadyOpen.
	CreateOpen(ctx context.Context, employeeID string, checkInAt time.Time) (string, error)

	// Close sets the check-out instant on the record only if it is still
	// open. It reports whether a record was actually closed; false means a
	// concurrent close already won (no-op, not an error).
	Close(ctx context.Context, recordID string, checkOutAt time.Time) (bool, error)

	// ListClosedSince returns the employee's closed records with a check-in
	// at or after since, most recent check-in first.
	ListClosedSince(ctx context.Context, employeeID string, since time.Time) ([]*domain.AttendanceRecord, error)
}
