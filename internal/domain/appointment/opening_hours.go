package appointment

import (
	"fmt"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// Weekdays are the only valid OpeningHours keys, indexed by time.Weekday.
var Weekdays = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

func WeekdayKey(d time.Weekday) string {
	return Weekdays[d]
}

func IsWeekdayKey(key string) bool {
	for _, k := range Weekdays {
		if k == key {
			return true
		}
	}
	return false
}

// DayHours is the open/close pair of one weekday ("HH:MM").
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours maps weekday keys to their hours. A nil map means the
// configuration has not been loaded; a missing key means closed that day.
type OpeningHours map[string]*DayHours

func (h OpeningHours) Loaded() bool {
	return h != nil
}

// Validate checks keys and open < close for every configured day.
func (h OpeningHours) Validate() error {
	for key, day := range h {
		if !IsWeekdayKey(key) {
			return fmt.Errorf("unknown weekday %q", key)
		}
		if day == nil || (day.Open == "" && day.Close == "") {
			continue
		}
		open, err := timezone.ParseClock(day.Open)
		if err != nil {
			return fmt.Errorf("%s: invalid open %q", key, day.Open)
		}
		closeAt, err := timezone.ParseClock(day.Close)
		if err != nil {
			return fmt.Errorf("%s: invalid close %q", key, day.Close)
		}
		if open >= closeAt {
			return fmt.Errorf("%s: open must be before close", key)
		}
	}
	return nil
}

// Window is the open interval [Open, Close) of a business day.
type Window struct {
	Open  timezone.Clock
	Close timezone.Clock
}

func (w Window) Minutes() int {
	return int(w.Close - w.Open)
}

// Policy groups the behaviours that apply when the hours are not known.
type Policy struct {
	// FailOpenOnUnloadedConfig treats an unloaded configuration as open,
	// using DefaultWindow as the day window.
	FailOpenOnUnloadedConfig bool
	DefaultWindow            Window

	// GateWritesOnUnloadedConfig refuses bookings until the hours are
	// loaded, even when display fails open.
	GateWritesOnUnloadedConfig bool
}

func DefaultPolicy() Policy {
	return Policy{
		FailOpenOnUnloadedConfig:   true,
		DefaultWindow:              Window{Open: 8 * 60, Close: 18 * 60},
		GateWritesOnUnloadedConfig: true,
	}
}

// AllowsWrite reports whether a booking may be written against hours.
func (p Policy) AllowsWrite(hours OpeningHours) bool {
	return hours.Loaded() || !p.GateWritesOnUnloadedConfig
}

// Resolver answers "is the shop open on this date, and when".
type Resolver struct {
	Policy Policy
}

func NewResolver(p Policy) Resolver {
	return Resolver{Policy: p}
}

func (r Resolver) IsOpenOnDate(hours OpeningHours, date timezone.Date) bool {
	_, ok := r.WindowFor(hours, date)
	return ok
}

func (r Resolver) WindowFor(hours OpeningHours, date timezone.Date) (Window, bool) {
	if !hours.Loaded() {
		if r.Policy.FailOpenOnUnloadedConfig {
			return r.Policy.DefaultWindow, true
		}
		return Window{}, false
	}

	day := hours[WeekdayKey(date.Weekday())]
	if day == nil || day.Open == "" || day.Close == "" {
		return Window{}, false
	}

	open, err := timezone.ParseClock(day.Open)
	if err != nil {
		return Window{}, false
	}
	closeAt, err := timezone.ParseClock(day.Close)
	if err != nil {
		return Window{}, false
	}
	if open >= closeAt {
		return Window{}, false
	}

	return Window{Open: open, Close: closeAt}, true
}
