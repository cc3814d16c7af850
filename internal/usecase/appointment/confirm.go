package appointment

import (
	"context"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
)

type ConfirmAppointment struct {
	statusChange
}

func NewConfirmAppointment(
	repo domain.Repository,
	pub realtime.Publisher,
	auditor *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{statusChange{
		repo:   repo,
		pub:    pub,
		audit:  auditor,
		action: audit.ActionAppointmentConfirmed,
		apply:  domain.Confirm,
		now:    time.Now,
	}}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.run(ctx, barbershopID, barberID, appointmentID)
}
