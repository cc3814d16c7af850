package audit

import (
	"sync"

	"go.uber.org/zap"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentConfirmed = "appointment_confirmed"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentCompleted = "appointment_completed"
	ActionBookingConflict      = "booking_conflict"
	ActionCorruptRecord        = "corrupt_record"
	ActionOpeningHoursUpdated  = "opening_hours_updated"
	ActionBarbershopUpdated    = "barbershop_updated"
	ActionServiceCreated       = "service_created"
	ActionServiceUpdated       = "service_updated"
)

type Event struct {
	BarbershopID uint
	UserID       *uint
	Action       string
	Entity       string
	EntityID     *uint
	Metadata     any
}

// Writer persists one audit event.
type Writer interface {
	Log(ev Event) error
}

type Dispatcher struct {
	writer Writer
	log    *zap.Logger
	queue  chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(writer Writer, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.writer.Log(ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("barbershop_id", ev.BarbershopID),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks; when the queue is full (or closed) the event is
// dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue and waits for the worker to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
