package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memoryWriter struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (w *memoryWriter) Log(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("db down")
	}
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcher_WritesQueuedEvents(t *testing.T) {
	w := &memoryWriter{}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{BarbershopID: 1, Action: ActionAppointmentCreated, Entity: "appointment"})
	d.Dispatch(Event{BarbershopID: 1, Action: ActionAppointmentCancelled, Entity: "appointment"})
	d.Close()

	assert.Len(t, w.events, 2)
	assert.Equal(t, ActionAppointmentCreated, w.events[0].Action)
}

func TestDispatcher_WriterErrorDoesNotStopWorker(t *testing.T) {
	w := &memoryWriter{fail: true}
	d := NewDispatcher(w, nil)

	d.Dispatch(Event{Action: ActionCorruptRecord})
	d.Close()

	assert.Empty(t, w.events)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: ActionAppointmentCreated})
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	w := &memoryWriter{}
	d := NewDispatcher(w, nil)
	d.Close()

	d.Dispatch(Event{Action: ActionAppointmentCreated})
	d.Close()

	assert.Empty(t, w.events)
}
