package appointment

import (
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

const DefaultSlotIntervalMinutes = 15

// Settings is the per-barbershop configuration of the engine.
type Settings struct {
	Hours       OpeningHours
	Policy      Policy
	IntervalMin int
	MarginMin   int
	Location    *time.Location
}

// Engine computes bookable start times over a caller-supplied snapshot of
// appointments. It never fetches and never mutates the snapshot.
type Engine struct {
	resolver Resolver
	settings Settings
	now      func() time.Time
	report   CorruptReporter
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithCorruptReporter(r CorruptReporter) Option {
	return func(e *Engine) { e.report = r }
}

func NewEngine(s Settings, opts ...Option) *Engine {
	if s.IntervalMin <= 0 {
		s.IntervalMin = DefaultSlotIntervalMinutes
	}
	if s.MarginMin < 0 {
		s.MarginMin = DefaultSafetyMarginMinutes
	}
	if s.Location == nil {
		s.Location = timezone.Location("")
	}

	e := &Engine{
		resolver: NewResolver(s.Policy),
		settings: s,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) Location() *time.Location {
	return e.settings.Location
}

func (e *Engine) WindowFor(date timezone.Date) (Window, bool) {
	return e.resolver.WindowFor(e.settings.Hours, date)
}

// ListAvailableSlots returns the bookable start times for barberID on date,
// earliest first: closed day => empty; otherwise generate, drop past, drop
// conflicting.
func (e *Engine) ListAvailableSlots(
	barberID uint,
	date timezone.Date,
	durationMin int,
	snapshot []Record,
) []timezone.Clock {

	out := []timezone.Clock{}

	window, open := e.WindowFor(date)
	if !open {
		return out
	}

	now := e.now()
	active := e.activeFor(barberID, date, snapshot)

	for _, slot := range GenerateSlots(window, e.settings.IntervalMin, durationMin) {
		if IsPast(date, slot, now, e.settings.MarginMin, e.settings.Location) {
			continue
		}
		if HasConflict(active, slot, durationMin) {
			continue
		}
		out = append(out, slot)
	}

	return out
}

// CheckBasic runs the snapshot-independent gates for one candidate:
// ErrClosedDay when the shop is closed, ErrSlotUnavailable when the slot
// does not fit the window or has already started.
func (e *Engine) CheckBasic(date timezone.Date, start timezone.Clock, durationMin int) error {
	window, open := e.WindowFor(date)
	if !open {
		return ErrClosedDay
	}
	if !FitsWindow(window, start, durationMin) {
		return ErrSlotUnavailable
	}
	if IsPast(date, start, e.now(), e.settings.MarginMin, e.settings.Location) {
		return ErrSlotUnavailable
	}
	return nil
}

// Conflicts reports whether the candidate overlaps an active appointment of
// barberID in snapshot.
func (e *Engine) Conflicts(
	barberID uint,
	date timezone.Date,
	start timezone.Clock,
	durationMin int,
	snapshot []Record,
) bool {
	return HasConflict(e.activeFor(barberID, date, snapshot), start, durationMin)
}

// IsSlotAvailable runs a single candidate through the same gates as
// ListAvailableSlots.
func (e *Engine) IsSlotAvailable(
	barberID uint,
	date timezone.Date,
	start timezone.Clock,
	durationMin int,
	snapshot []Record,
) bool {
	if err := e.CheckBasic(date, start, durationMin); err != nil {
		return false
	}
	return !e.Conflicts(barberID, date, start, durationMin, snapshot)
}

func (e *Engine) activeFor(barberID uint, date timezone.Date, snapshot []Record) []Record {
	relevant := make([]Record, 0, len(snapshot))
	for _, r := range snapshot {
		if r.BarberID != barberID {
			continue
		}
		relevant = append(relevant, r.ShiftTo(date))
	}
	return ActiveIntervals(relevant, e.report)
}
