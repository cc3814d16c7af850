package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// statusChange is the shared flow of confirm, cancel and complete: load the
// barber's appointment, apply the transition, save it conditioned on the
// status it was read with, audit and publish.
type statusChange struct {
	repo  domain.Repository
	pub   realtime.Publisher
	audit *audit.Dispatcher

	action string
	apply  func(ap *models.Appointment, now time.Time) error

	now func() time.Time
}

func (s *statusChange) run(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := s.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("barbershop_not_found")
		}
		return nil, domain.PersistenceError(err)
	}

	ap, err := s.repo.GetAppointmentForBarber(ctx, appointmentID, barberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAppointmentNotFound
		}
		return nil, domain.PersistenceError(err)
	}
	if ap.BarbershopID != barbershopID {
		return nil, errAppointmentNotFound
	}

	from := ap.Status
	now := s.now().In(timezone.Location(shop.Timezone))
	if err := s.apply(ap, now); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAppointment(ctx, ap, from); err != nil {
		if errors.Is(err, domain.ErrStatusChanged) {
			return nil, httperr.ErrBusiness(domain.CodeInvalidState)
		}
		return nil, domain.PersistenceError(err)
	}

	s.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &barberID,
		Action:       s.action,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	if s.pub != nil {
		s.pub.Publish(realtime.ChangeFromModel(realtime.OpUpdate, ap))
	}

	return ap, nil
}
