package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
	"github.com/dawam/attendance-system/internal/pkg/timeutil"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubLedger is an in-memory AttendanceRepository. Optional function fields
// override individual operations to simulate races.
type stubLedger struct {
	records      map[string]*domain.AttendanceRecord
	seq          int
	createOpenFn func(ctx context.Context, employeeID string, checkInAt time.Time) (string, error)
	closeFn      func(ctx context.Context, recordID string, checkOutAt time.Time) (bool, error)
}

func newStubLedger() *stubLedger {
	return &stubLedger{records: make(map[string]*domain.AttendanceRecord)}
}

func (l *stubLedger) FindOpen(_ context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	var latest *domain.AttendanceRecord
	for _, r := range l.records {
		if r.EmployeeID != employeeID || !r.Open() {
			continue
		}
		if latest == nil || r.CheckInAt.After(latest.CheckInAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, domain.ErrNoOpenShift
	}
	clone := *latest
	return &clone, nil
}

func (l *stubLedger) CreateOpen(ctx context.Context, employeeID string, checkInAt time.Time) (string, error) {
	if l.createOpenFn != nil {
		return l.createOpenFn(ctx, employeeID, checkInAt)
	}
	if _, err := l.FindOpen(ctx, employeeID); err == nil {
		return "", domain.ErrShiftAlreadyOpen
	}
	l.seq++
	id := fmt.Sprintf("rec-%d", l.seq)
	l.records[id] = &domain.AttendanceRecord{
		ID:         id,
		EmployeeID: employeeID,
		CheckInAt:  checkInAt,
		CreatedAt:  checkInAt,
	}
	return id, nil
}

func (l *stubLedger) Close(ctx context.Context, recordID string, checkOutAt time.Time) (bool, error) {
	if l.closeFn != nil {
		return l.closeFn(ctx, recordID, checkOutAt)
	}
	r, ok := l.records[recordID]
	if !ok || !r.Open() {
		return false, nil
	}
	out := checkOutAt
	r.CheckOutAt = &out
	return true, nil
}

func (l *stubLedger) ListClosedSince(_ context.Context, employeeID string, since time.Time) ([]*domain.AttendanceRecord, error) {
	var out []*domain.AttendanceRecord
	for _, r := range l.records {
		if r.EmployeeID != employeeID || r.Open() || r.CheckInAt.Before(since) {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInAt.After(out[j].CheckInAt) })
	return out, nil
}

// seedClosed inserts a closed record directly into the ledger.
func (l *stubLedger) seedClosed(employeeID string, checkInAt time.Time, dur time.Duration) {
	l.seq++
	out := checkInAt.Add(dur)
	id := fmt.Sprintf("rec-%d", l.seq)
	l.records[id] = &domain.AttendanceRecord{
		ID:         id,
		EmployeeID: employeeID,
		CheckInAt:  checkInAt,
		CheckOutAt: &out,
		CreatedAt:  checkInAt,
	}
}

func (l *stubLedger) openCount(employeeID string) int {
	n := 0
	for _, r := range l.records {
		if r.EmployeeID == employeeID && r.Open() {
			n++
		}
	}
	return n
}

type stubEmployees struct {
	byID map[string]*domain.Employee
}

func newStubEmployees(ids ...string) *stubEmployees {
	s := &stubEmployees{byID: make(map[string]*domain.Employee)}
	for _, id := range ids {
		s.byID[id] = &domain.Employee{ID: id, FullName: "Employee " + id, Phone: "050" + id, IsActive: true}
	}
	return s
}

func (s *stubEmployees) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	for _, existing := range s.byID {
		if existing.Phone == e.Phone {
			return nil, domain.ErrPhoneExists
		}
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("emp-%d", len(s.byID)+1)
	}
	s.byID[e.ID] = e
	return e, nil
}

func (s *stubEmployees) FindByPhone(_ context.Context, phone string) (*domain.Employee, error) {
	for _, e := range s.byID {
		if e.Phone == phone {
			return e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (s *stubEmployees) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *stubEmployees) List(_ context.Context) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	return out, nil
}

type stubSink struct {
	checkIns  []ports.CheckInEvent
	checkOuts []ports.CheckOutEvent
}

func (s *stubSink) EnqueueCheckIn(ev ports.CheckInEvent)   { s.checkIns = append(s.checkIns, ev) }
func (s *stubSink) EnqueueCheckOut(ev ports.CheckOutEvent) { s.checkOuts = append(s.checkOuts, ev) }

type stubCache struct {
	stored      map[string]*ports.SummaryResult
	gets, sets  int
	invalidates int
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string]*ports.SummaryResult)}
}

func (c *stubCache) Get(_ context.Context, employeeID string) (*ports.SummaryResult, error) {
	c.gets++
	return c.stored[employeeID], nil
}

func (c *stubCache) Set(_ context.Context, employeeID string, s *ports.SummaryResult) error {
	c.sets++
	c.stored[employeeID] = s
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, employeeID string) error {
	c.invalidates++
	delete(c.stored, employeeID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newSvc(ledger *stubLedger, sink *stubSink, now time.Time) *AttendanceService {
	var events EventSink
	if sink != nil {
		events = sink
	}
	svc := NewAttendanceService(ledger, newStubEmployees("emp1", "emp2"), nil, events, timeutil.NewClock(time.UTC), zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// CheckIn
// ---------------------------------------------------------------------------

func TestAttendanceService_CheckIn_OpensShift(t *testing.T) {
	ledger := newStubLedger()
	sink := &stubSink{}
	svc := newSvc(ledger, sink, baseTime)

	res, err := svc.CheckIn(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if res.Already {
		t.Fatalf("expected a fresh check-in, got already=true")
	}
	if res.AttendanceID == "" {
		t.Fatalf("expected attendance id")
	}
	if res.Time != "09:00" {
		t.Fatalf("unexpected time: %s", res.Time)
	}
	if got := ledger.openCount("emp1"); got != 1 {
		t.Fatalf("expected 1 open record, got %d", got)
	}
	if len(sink.checkIns) != 1 {
		t.Fatalf("expected 1 check-in event, got %d", len(sink.checkIns))
	}
	if sink.checkIns[0].EmployeeName != "Employee emp1" {
		t.Fatalf("unexpected event name: %s", sink.checkIns[0].EmployeeName)
	}
}

func TestAttendanceService_CheckIn_Idempotent(t *testing.T) {
	ledger := newStubLedger()
	sink := &stubSink{}
	svc := newSvc(ledger, sink, baseTime)

	first, err := svc.CheckIn(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	second, err := svc.CheckIn(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}

	if !second.Already {
		t.Fatalf("expected already=true on second call")
	}
	if second.AttendanceID != first.AttendanceID {
		t.Fatalf("expected same record, got %s and %s", first.AttendanceID, second.AttendanceID)
	}
	if len(ledger.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ledger.records))
	}
	if len(sink.checkIns) != 1 {
		t.Fatalf("idempotent replay must not notify, got %d events", len(sink.checkIns))
	}
}

func TestAttendanceService_CheckIn_LostInsertRace(t *testing.T) {
	ledger := newStubLedger()
	svc := newSvc(ledger, nil, baseTime)

	// By the time our insert lands, a concurrent request has already opened
	// the shift and the store's unique constraint rejects the duplicate.
	ledger.createOpenFn = func(_ context.Context, employeeID string, _ time.Time) (string, error) {
		ledger.createOpenFn = nil
		ledger.records["rec-race"] = &domain.AttendanceRecord{
			ID:         "rec-race",
			EmployeeID: employeeID,
			CheckInAt:  baseTime.Add(-time.Second),
		}
		return "", domain.ErrShiftAlreadyOpen
	}

	res, err := svc.CheckIn(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if !res.Already {
		t.Fatalf("expected already=true after lost race")
	}
	if res.AttendanceID != "rec-race" {
		t.Fatalf("expected the winner's record, got %s", res.AttendanceID)
	}
	if got := ledger.openCount("emp1"); got != 1 {
		t.Fatalf("expected exactly 1 open record, got %d", got)
	}
}

func TestAttendanceService_CheckIn_InvalidEmployee(t *testing.T) {
	svc := newSvc(newStubLedger(), nil, baseTime)

	if _, err := svc.CheckIn(context.Background(), ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank id, got %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "ghost"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for unknown id, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CheckOut
// ---------------------------------------------------------------------------

func TestAttendanceService_CheckOut_NoOpenShift(t *testing.T) {
	ledger := newStubLedger()
	ledger.seedClosed("emp1", baseTime.Add(-2*time.Hour), time.Hour)
	svc := newSvc(ledger, nil, baseTime)

	if _, err := svc.CheckOut(context.Background(), "emp1"); !errors.Is(err, domain.ErrNoOpenShift) {
		t.Fatalf("expected ErrNoOpenShift, got %v", err)
	}
	if len(ledger.records) != 1 {
		t.Fatalf("checkout without open shift must not mutate records")
	}
}

func TestAttendanceService_CheckOut_ComputesDuration(t *testing.T) {
	ledger := newStubLedger()
	sink := &stubSink{}
	checkIn := baseTime
	now := baseTime.Add(90 * time.Minute)
	svc := newSvc(ledger, sink, checkIn)

	if _, err := svc.CheckIn(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	svc.now = func() time.Time { return now }

	res, err := svc.CheckOut(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.ShiftHours != 1.5 {
		t.Fatalf("expected 1.5 shift hours, got %v", res.ShiftHours)
	}
	if res.TotalHours30d != 1.5 {
		t.Fatalf("expected 1.5 total hours, got %v", res.TotalHours30d)
	}
	if res.Time != "10:30" {
		t.Fatalf("unexpected time: %s", res.Time)
	}
	if got := ledger.openCount("emp1"); got != 0 {
		t.Fatalf("expected no open records after checkout, got %d", got)
	}
	if len(sink.checkOuts) != 1 || sink.checkOuts[0].ShiftHours != 1.5 {
		t.Fatalf("unexpected checkout events: %+v", sink.checkOuts)
	}
}

func TestAttendanceService_CheckOut_IncludesWindowTotal(t *testing.T) {
	ledger := newStubLedger()
	// 3h five days ago (inside window), 8h forty days ago (outside).
	ledger.seedClosed("emp1", baseTime.AddDate(0, 0, -5), 3*time.Hour)
	ledger.seedClosed("emp1", baseTime.AddDate(0, 0, -40), 8*time.Hour)
	svc := newSvc(ledger, nil, baseTime)

	if _, err := svc.CheckIn(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	svc.now = func() time.Time { return baseTime.Add(2 * time.Hour) }

	res, err := svc.CheckOut(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.ShiftHours != 2.0 {
		t.Fatalf("expected 2.0 shift hours, got %v", res.ShiftHours)
	}
	if res.TotalHours30d != 5.0 {
		t.Fatalf("expected 5.0 total (2h + 3h in window), got %v", res.TotalHours30d)
	}
}

func TestAttendanceService_CheckOut_ConcurrentCloseLoses(t *testing.T) {
	ledger := newStubLedger()
	svc := newSvc(ledger, nil, baseTime)

	if _, err := svc.CheckIn(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	// Another request closed the record between our lookup and update.
	ledger.closeFn = func(context.Context, string, time.Time) (bool, error) {
		return false, nil
	}

	if _, err := svc.CheckOut(context.Background(), "emp1"); !errors.Is(err, domain.ErrNoOpenShift) {
		t.Fatalf("expected ErrNoOpenShift when close loses the race, got %v", err)
	}
}

func TestAttendanceService_CheckOut_ClampsNegativeDuration(t *testing.T) {
	ledger := newStubLedger()
	svc := newSvc(ledger, nil, baseTime)

	if _, err := svc.CheckIn(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	// Clock skew: checkout instant precedes the stored check-in.
	svc.now = func() time.Time { return baseTime.Add(-10 * time.Minute) }

	res, err := svc.CheckOut(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.ShiftHours != 0.0 {
		t.Fatalf("expected shift hours clamped to 0, got %v", res.ShiftHours)
	}
}

func TestAttendanceService_CheckOut_InvalidatesCache(t *testing.T) {
	ledger := newStubLedger()
	cache := newStubCache()
	svc := NewAttendanceService(ledger, newStubEmployees("emp1"), cache, nil, timeutil.NewClock(time.UTC), zerolog.Nop())
	svc.now = func() time.Time { return baseTime }

	if _, err := svc.CheckIn(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	svc.now = func() time.Time { return baseTime.Add(time.Hour) }
	if _, err := svc.CheckOut(context.Background(), "emp1"); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if cache.invalidates != 1 {
		t.Fatalf("expected 1 cache invalidation, got %d", cache.invalidates)
	}
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

func TestAttendanceService_Summary_EmptyHistory(t *testing.T) {
	svc := newSvc(newStubLedger(), nil, baseTime)

	res, err := svc.Summary(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(res.Days) != 0 {
		t.Fatalf("expected no days, got %d", len(res.Days))
	}
	if res.TotalHours != 0 {
		t.Fatalf("expected total 0, got %v", res.TotalHours)
	}
}

func TestAttendanceService_Summary_WindowBoundary(t *testing.T) {
	ledger := newStubLedger()
	boundary := baseTime.Add(-30 * 24 * time.Hour)
	ledger.seedClosed("emp1", boundary, time.Hour)                        // exactly at the boundary: included
	ledger.seedClosed("emp1", boundary.Add(-time.Millisecond), time.Hour) // 1ms older: excluded
	svc := newSvc(ledger, nil, baseTime)

	res, err := svc.Summary(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if res.TotalHours != 1.0 {
		t.Fatalf("expected only the boundary record (1.0h), got %v", res.TotalHours)
	}
	if len(res.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(res.Days))
	}
}

func TestAttendanceService_Summary_ServesFromCache(t *testing.T) {
	ledger := newStubLedger()
	ledger.seedClosed("emp1", baseTime.Add(-time.Hour), time.Hour)
	cache := newStubCache()
	cache.stored["emp1"] = &ports.SummaryResult{Days: []ports.DaySummary{{Date: "01/03/2025", Hours: 4}}, TotalHours: 4}

	svc := NewAttendanceService(ledger, newStubEmployees("emp1"), cache, nil, timeutil.NewClock(time.UTC), zerolog.Nop())
	svc.now = func() time.Time { return baseTime }

	res, err := svc.Summary(context.Background(), "emp1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if res.TotalHours != 4 {
		t.Fatalf("expected cached total 4, got %v", res.TotalHours)
	}
	if cache.sets != 0 {
		t.Fatalf("cache hit must not rewrite the entry")
	}
}

func TestAttendanceService_Summary_PopulatesCacheOnMiss(t *testing.T) {
	ledger := newStubLedger()
	ledger.seedClosed("emp1", baseTime.Add(-time.Hour), time.Hour)
	cache := newStubCache()

	svc := NewAttendanceService(ledger, newStubEmployees("emp1"), cache, nil, timeutil.NewClock(time.UTC), zerolog.Nop())
	svc.now = func() time.Time { return baseTime }

	if _, err := svc.Summary(context.Background(), "emp1"); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache write on miss, got %d", cache.sets)
	}
}

// ---------------------------------------------------------------------------
// Invariant: at most one open record per employee after operations settle.
// ---------------------------------------------------------------------------

func TestAttendanceService_AtMostOneOpenShift(t *testing.T) {
	ledger := newStubLedger()
	svc := newSvc(ledger, nil, baseTime)
	ctx := context.Background()

	steps := []func() error{
		func() error { _, err := svc.CheckIn(ctx, "emp1"); return err },
		func() error { _, err := svc.CheckIn(ctx, "emp1"); return err },
		func() error { _, err := svc.CheckOut(ctx, "emp1"); return err },
		func() error { _, err := svc.CheckIn(ctx, "emp1"); return err },
		func() error { _, err := svc.CheckIn(ctx, "emp2"); return err },
	}
	for i, step := range steps {
		svc.now = func() time.Time { return baseTime.Add(time.Duration(i+1) * time.Minute) }
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, emp := range []string{"emp1", "emp2"} {
			if n := ledger.openCount(emp); n > 1 {
				t.Fatalf("step %d: %s has %d open records", i, emp, n)
			}
		}
	}
}
