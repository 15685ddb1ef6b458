package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
	"github.com/dawam/attendance-system/internal/pkg/timeutil"
)

const summaryWindowDays = 30

// SummaryCache abstracts the short-lived summary store (Redis). A nil result
// with a nil error is a miss.
type SummaryCache interface {
	Get(ctx context.Context, employeeID string) (*ports.SummaryResult, error)
	Set(ctx context.Context, employeeID string, summary *ports.SummaryResult) error
	Invalidate(ctx context.Context, employeeID string) error
}

// EventSink receives attendance events for asynchronous delivery. Enqueueing
// never blocks and never fails the calling request.
type EventSink interface {
	EnqueueCheckIn(event ports.CheckInEvent)
	EnqueueCheckOut(event ports.CheckOutEvent)
}

// AttendanceService is the shift engine. It is stateless across requests; all
// durable state lives in the ledger.
type AttendanceService struct {
	ledger    ports.AttendanceRepository
	employees ports.EmployeeRepository
	cache     SummaryCache // optional
	events    EventSink    // optional
	clock     *timeutil.Clock
	log       zerolog.Logger

	now func() time.Time
}

func NewAttendanceService(
	ledger ports.AttendanceRepository,
	employees ports.EmployeeRepository,
	cache SummaryCache,
	events EventSink,
	clock *timeutil.Clock,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		ledger:    ledger,
		employees: employees,
		cache:     cache,
		events:    events,
		clock:     clock,
		log:       log,
		now:       time.Now,
	}
}

// CheckIn opens a shift for the employee, or returns the already-open one.
// Only a genuinely new check-in emits a notification event.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID string) (*ports.CheckInResult, error) {
	employee, err := s.requireEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	open, err := s.ledger.FindOpen(ctx, employeeID)
	if err == nil {
		return &ports.CheckInResult{
			AttendanceID: open.ID,
			Time:         s.clock.FormatClock(open.CheckInAt),
			Already:      true,
		}, nil
	}
	if !errors.Is(err, domain.ErrNoOpenShift) {
		return nil, err
	}

	checkInAt := s.now().UTC()
	id, err := s.ledger.CreateOpen(ctx, employeeID, checkInAt)
	if errors.Is(err, domain.ErrShiftAlreadyOpen) {
		// Lost the insert race: another request opened the shift between our
		// lookup and insert. Serve its record idempotently.
		open, err = s.ledger.FindOpen(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		return &ports.CheckInResult{
			AttendanceID: open.ID,
			Time:         s.clock.FormatClock(open.CheckInAt),
			Already:      true,
		}, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("employee_id", employeeID).Msg("failed to open shift")
		return nil, err
	}

	timeStr := s.clock.FormatClock(checkInAt)
	if s.events != nil {
		s.events.EnqueueCheckIn(ports.CheckInEvent{
			EmployeeID:   employeeID,
			EmployeeName: employee.FullName,
			Time:         timeStr,
		})
	}

	s.log.Info().Str("employee_id", employeeID).Str("attendance_id", id).Msg("shift opened")

	return &ports.CheckInResult{AttendanceID: id, Time: timeStr}, nil
}

// CheckOut closes the employee's open shift and recomputes the rolling 30-day
// total. First writer wins: a concurrent close that got there earlier leaves
// nothing open and this call reports no open shift.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID string) (*ports.CheckOutResult, error) {
	employee, err := s.requireEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	open, err := s.ledger.FindOpen(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	checkOutAt := s.now().UTC()
	closed, err := s.ledger.Close(ctx, open.ID, checkOutAt)
	if err != nil {
		s.log.Error().Err(err).Str("attendance_id", open.ID).Msg("failed to close shift")
		return nil, err
	}
	if !closed {
		return nil, domain.ErrNoOpenShift
	}

	shift := *open
	shift.CheckOutAt = &checkOutAt
	shiftHours := shift.Hours()

	since := timeutil.WindowStart(checkOutAt, summaryWindowDays)
	records, err := s.ledger.ListClosedSince(ctx, employeeID, since)
	if err != nil {
		return nil, err
	}
	total := aggregate(records, s.clock).TotalHours

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, employeeID); err != nil {
			s.log.Warn().Err(err).Str("employee_id", employeeID).Msg("summary cache invalidation failed")
		}
	}

	timeStr := s.clock.FormatClock(checkOutAt)
	if s.events != nil {
		s.events.EnqueueCheckOut(ports.CheckOutEvent{
			EmployeeID:    employeeID,
			EmployeeName:  employee.FullName,
			Time:          timeStr,
			ShiftHours:    shiftHours,
			TotalHours30d: total,
		})
	}

	s.log.Info().
		Str("employee_id", employeeID).
		Str("attendance_id", open.ID).
		Float64("shift_hours", shiftHours).
		Msg("shift closed")

	return &ports.CheckOutResult{
		Time:          timeStr,
		ShiftHours:    shiftHours,
		TotalHours30d: total,
	}, nil
}

// Summary aggregates the employee's closed shifts over the trailing 30 days,
// bucketed by the local calendar day of each check-in. An empty history is a
// valid empty summary, not an error.
func (s *AttendanceService) Summary(ctx context.Context, employeeID string) (*ports.SummaryResult, error) {
	if employeeID == "" {
		return nil, domain.ErrInvalidRequest
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, employeeID)
		if err != nil {
			s.log.Warn().Err(err).Str("employee_id", employeeID).Msg("summary cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	since := timeutil.WindowStart(s.now().UTC(), summaryWindowDays)
	records, err := s.ledger.ListClosedSince(ctx, employeeID, since)
	if err != nil {
		return nil, err
	}

	summary := aggregate(records, s.clock)

	if s.cache != nil {
		if err := s.cache.Set(ctx, employeeID, summary); err != nil {
			s.log.Warn().Err(err).Str("employee_id", employeeID).Msg("summary cache write failed")
		}
	}

	return summary, nil
}

func (s *AttendanceService) requireEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	if employeeID == "" {
		return nil, domain.ErrInvalidRequest
	}
	employee, err := s.employees.FindByID(ctx, employeeID)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, domain.ErrInvalidRequest
	}
	if err != nil {
		return nil, err
	}
	return employee, nil
}
