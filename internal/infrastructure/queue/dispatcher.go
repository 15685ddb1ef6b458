package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dawam/attendance-system/internal/api/metrics"
	"github.com/dawam/attendance-system/internal/core/ports"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 64
	deliveryTimeout = 15 * time.Second
)

// event is either a check-in or a check-out notification; exactly one field
// is set.
type event struct {
	checkIn  *ports.CheckInEvent
	checkOut *ports.CheckOutEvent
}

// Dispatcher decouples notification delivery from the request path. Events
// are routed to a fixed set of workers by hashing the employee id, so an
// employee's check-in and check-out notifications arrive in order. Enqueueing
// never blocks: when a worker's buffer is full the event is dropped and
// counted.
type Dispatcher struct {
	workers  []chan event
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan event, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueCheckIn hands a check-in event to its employee's worker.
func (d *Dispatcher) EnqueueCheckIn(ev ports.CheckInEvent) {
	d.enqueue(ev.EmployeeID, "checkin", event{checkIn: &ev})
}

// EnqueueCheckOut hands a check-out event to its employee's worker.
func (d *Dispatcher) EnqueueCheckOut(ev ports.CheckOutEvent) {
	d.enqueue(ev.EmployeeID, "checkout", event{checkOut: &ev})
}

func (d *Dispatcher) enqueue(employeeID, kind string, ev event) {
	idx := d.shardIndex(employeeID)
	select {
	case d.workers[idx] <- ev:
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues(kind, "dropped").Inc()
		d.log.Warn().Str("employee_id", employeeID).Str("kind", kind).Msg("notification queue full, event dropped")
	}
}

// shardIndex maps an employee id deterministically to a worker index.
func (d *Dispatcher) shardIndex(employeeID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(employeeID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan event) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.deliver(ctx, ev)
		}
	}
}

// deliver sends one event with a bounded deadline. Failures are logged and
// counted; they never propagate.
func (d *Dispatcher) deliver(ctx context.Context, ev event) {
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	var err error
	kind := "checkin"
	employeeID := ""
	switch {
	case ev.checkIn != nil:
		employeeID = ev.checkIn.EmployeeID
		err = d.notifier.NotifyCheckIn(sendCtx, *ev.checkIn)
	case ev.checkOut != nil:
		kind = "checkout"
		employeeID = ev.checkOut.EmployeeID
		err = d.notifier.NotifyCheckOut(sendCtx, *ev.checkOut)
	default:
		return
	}

	// Sent/skipped outcomes are counted by the notifier itself.
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "error").Inc()
		d.log.Warn().Err(err).
			Str("employee_id", employeeID).
			Str("kind", kind).
			Msg("notification delivery failed")
	}
}
