package appointment

import (
	"errors"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
)

const (
	CodeClosedDay        = "closed_day"
	CodeUnknownService   = "unknown_service"
	CodeSlotUnavailable  = "slot_unavailable"
	CodeSlotTaken        = "slot_taken"
	CodePersistenceError = "persistence_error"
	CodeCorruptRecord    = "corrupt_record"

	CodeInvalidState        = "invalid_state"
	CodeInvalidDateOrTime   = "invalid_date_or_time"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeBarberNotFound      = "barber_not_found"
)

var (
	ErrClosedDay       = httperr.ErrBusiness(CodeClosedDay)
	ErrUnknownService  = httperr.ErrBusiness(CodeUnknownService)
	ErrSlotUnavailable = httperr.ErrBusiness(CodeSlotUnavailable)
	ErrSlotTaken       = httperr.ErrBusiness(CodeSlotTaken)

	// ErrStatusChanged is returned by UpdateAppointment when the stored
	// status no longer matches the one the transition was computed from.
	ErrStatusChanged = errors.New("appointment status changed")
)

// PersistenceError wraps a write-time infrastructure failure. Callers may
// retry after running a fresh availability check.
func PersistenceError(cause error) error {
	return httperr.Wrap(CodePersistenceError, cause)
}
