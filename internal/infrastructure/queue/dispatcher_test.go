package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/dawam/attendance-system/internal/api/metrics"
	"github.com/dawam/attendance-system/internal/core/ports"
)

type delivery struct {
	kind       string
	employeeID string
}

type recordingNotifier struct {
	deliveries chan delivery
	checkInErr error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{deliveries: make(chan delivery, 16)}
}

func (n *recordingNotifier) NotifyCheckIn(_ context.Context, ev ports.CheckInEvent) error {
	n.deliveries <- delivery{kind: "checkin", employeeID: ev.EmployeeID}
	return n.checkInErr
}

func (n *recordingNotifier) NotifyCheckOut(_ context.Context, ev ports.CheckOutEvent) error {
	n.deliveries <- delivery{kind: "checkout", employeeID: ev.EmployeeID}
	return nil
}

func waitForDelivery(t *testing.T, n *recordingNotifier) delivery {
	t.Helper()
	select {
	case d := <-n.deliveries:
		return d
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
		return delivery{}
	}
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier()
	d := NewDispatcher(2, notifier, zerolog.Nop())
	d.Start(ctx)

	d.EnqueueCheckIn(ports.CheckInEvent{EmployeeID: "emp1", EmployeeName: "Dana", Time: "09:00"})
	d.EnqueueCheckOut(ports.CheckOutEvent{EmployeeID: "emp1", EmployeeName: "Dana", Time: "17:00", ShiftHours: 8})

	if got := waitForDelivery(t, notifier); got.kind != "checkin" || got.employeeID != "emp1" {
		t.Fatalf("unexpected first delivery: %+v", got)
	}
	if got := waitForDelivery(t, notifier); got.kind != "checkout" || got.employeeID != "emp1" {
		t.Fatalf("unexpected second delivery: %+v", got)
	}
}

func TestDispatcher_PreservesPerEmployeeOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier()
	d := NewDispatcher(4, notifier, zerolog.Nop())

	// Enqueue before starting so ordering does not depend on scheduling.
	for i := 0; i < 3; i++ {
		d.EnqueueCheckIn(ports.CheckInEvent{EmployeeID: "emp1", Time: "09:00"})
		d.EnqueueCheckOut(ports.CheckOutEvent{EmployeeID: "emp1", Time: "17:00"})
	}
	d.Start(ctx)

	want := []string{"checkin", "checkout", "checkin", "checkout", "checkin", "checkout"}
	for i, kind := range want {
		if got := waitForDelivery(t, notifier); got.kind != kind {
			t.Fatalf("delivery %d: expected %s, got %s", i, kind, got.kind)
		}
	}
}

func TestDispatcher_SwallowsNotifierErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier()
	notifier.checkInErr = errors.New("smtp down")
	d := NewDispatcher(1, notifier, zerolog.Nop())
	d.Start(ctx)

	d.EnqueueCheckIn(ports.CheckInEvent{EmployeeID: "emp1"})
	d.EnqueueCheckOut(ports.CheckOutEvent{EmployeeID: "emp1"})

	// The failed check-in must not stop the worker.
	waitForDelivery(t, notifier)
	if got := waitForDelivery(t, notifier); got.kind != "checkout" {
		t.Fatalf("expected checkout after failed checkin, got %+v", got)
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	notifier := newRecordingNotifier()
	// Never started, so the single worker's buffer fills up.
	d := NewDispatcher(1, notifier, zerolog.Nop())

	dropped := metrics.NotificationsTotal.WithLabelValues("checkin", "dropped")
	before := testutil.ToFloat64(dropped)

	for i := 0; i < channelBuffer+5; i++ {
		d.EnqueueCheckIn(ports.CheckInEvent{EmployeeID: "emp1"})
	}

	if got := testutil.ToFloat64(dropped) - before; got != 5 {
		t.Fatalf("expected 5 dropped events, got %v", got)
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingNotifier(), zerolog.Nop())
	first := d.shardIndex("emp1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("emp1"); got != first {
			t.Fatalf("shard index changed: %d vs %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
