package appointment

import "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses occupy a slot; everything else never blocks a booking.
var ActiveStatuses = []Status{StatusScheduled, StatusConfirmed}

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, true
	}
	return "", false
}

func (s Status) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ActiveStatusValues is ActiveStatuses as plain strings, for queries.
func ActiveStatusValues() []string {
	out := make([]string, 0, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// ===============================
// Validations
// ===============================

// CanTransition valida a máquina de estados do agendamento.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness(CodeInvalidState)
}

func CanConfirm(current Status) error {
	return CanTransition(current, StatusConfirmed)
}

func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

func InitialStatus() Status {
	return StatusScheduled
}
