package appointment

import (
	"context"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/dto"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barberID uint,
	barbershopID uint,
	date timezone.Date,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	start, end := dayBounds(date, timezone.Location(shop.Timezone))

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		start,
		end,
	)
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	return dto.AppointmentList(appointments), nil
}
