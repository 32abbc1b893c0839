package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const queueSize = 100

const (
	ActionAppointmentCreated  = "appointment_created"
	ActionAppointmentConflict = "appointment_conflict"
	ActionAppointmentStatus   = "appointment_status_changed"
)

type Event struct {
	BarbershopID  uint
	UserID        *uint
	Action        string
	Entity        string
	EntityID      *uint
	CorrelationID string
	Metadata      any
}

// Sink stores events. A nil sink means events are only logged.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink    Sink
	logger  *slog.Logger
	queue   chan Event
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		d.logger.Info("audit",
			"action", ev.Action,
			"barbershop_id", ev.BarbershopID,
			"entity", ev.Entity,
			"correlation_id", ev.CorrelationID,
		)
		if d.sink == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Record(ctx, ev); err != nil {
			d.logger.Error("audit write failed", "action", ev.Action, "err", err)
		}
		cancel()
	}
}

// Dispatch never blocks; when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.CorrelationID == "" {
		ev.CorrelationID = uuid.NewString()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.dropped.Add(1)
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
