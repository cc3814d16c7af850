package appointment

import (
	"context"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
)

type CompleteAppointment struct {
	statusChange
}

func NewCompleteAppointment(
	repo domain.Repository,
	pub realtime.Publisher,
	auditor *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{statusChange{
		repo:   repo,
		pub:    pub,
		audit:  auditor,
		action: audit.ActionAppointmentCompleted,
		apply:  domain.Complete,
		now:    time.Now,
	}}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.run(ctx, barbershopID, barberID, appointmentID)
}
