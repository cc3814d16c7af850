package appointment

import (
	"context"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
)

type CancelAppointment struct {
	statusChange
}

func NewCancelAppointment(
	repo domain.Repository,
	pub realtime.Publisher,
	auditor *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{statusChange{
		repo:   repo,
		pub:    pub,
		audit:  auditor,
		action: audit.ActionAppointmentCancelled,
		apply:  domain.Cancel,
		now:    time.Now,
	}}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.run(ctx, barbershopID, barberID, appointmentID)
}
