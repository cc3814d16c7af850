package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	// ActiveSlotIndex is the partial unique index on (barber_id, start_time)
	// for active appointments.
	ActiveSlotIndex = "idx_appointments_active_slot"
)

// IsExclusionConflict reports whether err comes from the appointment
// overlap constraints (exclusion constraint or the active slot index).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgExclusionViolation:
		return true
	case pgUniqueViolation:
		return pgErr.ConstraintName == ActiveSlotIndex
	}
	return false
}

// IsUniqueViolation reports any unique constraint violation (e-mail, slug).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
