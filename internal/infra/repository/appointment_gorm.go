package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetOpeningHours(
	ctx context.Context,
	barbershopID uint,
) (domain.OpeningHours, error) {
	return LoadOpeningHours(ctx, r.db, barbershopID)
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.User, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// GetDefaultBarber is the oldest owner of the barbershop.
func (r *AppointmentGormRepository) GetDefaultBarber(
	ctx context.Context,
	barbershopID uint,
) (*models.User, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND role = ?", barbershopID, models.RoleOwner).
		Order("id ASC").
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = ?", serviceID, barbershopID, true).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	// a concurrent booking may have created the same client
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&client).Error; err != nil {
		return nil, err
	}
	if client.ID != 0 {
		return &client, nil
	}

	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// activeInRange matches active rows overlapping [start, end). Rows with a
// broken interval that start inside the range are matched too so callers
// can report them.
func activeInRange(db *gorm.DB, barberID uint, start, end time.Time) *gorm.DB {
	return db.
		Where("barber_id = ? AND status IN ?", barberID, domain.ActiveStatusValues()).
		Where("start_time < ? AND (end_time > ? OR start_time >= ?)", end, start, start).
		Order("start_time ASC")
}

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := activeInRange(r.db.WithContext(ctx), barberID, start, end).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) InsertIfFree(
	ctx context.Context,
	ap *models.Appointment,
	dayStart time.Time,
	dayEnd time.Time,
	check domain.SlotCheck,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// one writer per barber and day
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(?, ?)",
			int32(ap.BarberID),
			advisoryDayKey(dayStart),
		).Error; err != nil {
			return err
		}

		var active []models.Appointment
		if err := activeInRange(tx, ap.BarberID, dayStart, dayEnd).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&active).Error; err != nil {
			return err
		}

		if err := check(active); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

func advisoryDayKey(dayStart time.Time) int32 {
	return int32(dayStart.Unix() / 86400)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForBarber(
	ctx context.Context,
	appointmentID uint,
	barberID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus string,
) error {

	ap.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, fromStatus).
		Updates(map[string]any{
			"status":       ap.Status,
			"confirmed_at": ap.ConfirmedAt,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   ap.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
