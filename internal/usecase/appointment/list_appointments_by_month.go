package appointment

import (
	"context"
	"time"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/dto"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo appointment.Repository
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	barberID uint,
	barbershopID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, errInvalidDateOrTime
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, appointment.PersistenceError(err)
	}

	loc := timezone.Location(shop.Timezone)
	first := timezone.Date{Year: year, Month: time.Month(month), Day: 1}

	start := timezone.StartOfDay(first, loc)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		start,
		end,
	)
	if err != nil {
		return nil, appointment.PersistenceError(err)
	}

	return dto.AppointmentList(appointments), nil
}
