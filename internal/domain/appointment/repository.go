package appointment

import (
	"context"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

// SlotCheck runs inside the booking transaction with the barber's active
// appointments for the day, re-read under lock. A non-nil error aborts the
// insert and is returned unchanged.
type SlotCheck func(active []models.Appointment) error

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// GetOpeningHours returns nil when the barbershop has no hours
	// configured yet.
	GetOpeningHours(
		ctx context.Context,
		barbershopID uint,
	) (OpeningHours, error)

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
	) (*models.User, error)

	GetDefaultBarber(
		ctx context.Context,
		barbershopID uint,
	) (*models.User, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// ListActiveAppointments returns the scheduled/confirmed appointments
	// of barberID overlapping [start, end), ordered by start.
	ListActiveAppointments(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// InsertIfFree serializes bookings of barberID for the day containing
	// ap.StartTime, re-reads the active appointments in [dayStart, dayEnd),
	// runs check and inserts ap. A storage-level overlap violation is
	// reported as ErrSlotTaken.
	InsertIfFree(
		ctx context.Context,
		ap *models.Appointment,
		dayStart time.Time,
		dayEnd time.Time,
		check SlotCheck,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForBarber(
		ctx context.Context,
		appointmentID uint,
		barberID uint,
	) (*models.Appointment, error)

	// UpdateAppointment writes the transition fields of ap only while the
	// stored status is still fromStatus; otherwise ErrStatusChanged.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		fromStatus string,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
