package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/cache"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/metrics"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	// BarberID zero books with the default barber of the shop.
	BarberID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date  string
	Time  string
	Notes string

	// ActorID is the logged-in barber for private bookings, nil for the
	// public page.
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment books a slot. Guards run in a fixed order and the first
// failing one wins: closed_day, unknown_service, slot_unavailable,
// slot_taken.
type CreateAppointment struct {
	repo    domain.Repository
	hours   *HoursCache
	locker  cache.Locker
	lockTTL time.Duration
	pub     realtime.Publisher
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	log     *zap.Logger

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	hours *HoursCache,
	locker cache.Locker,
	lockTTL time.Duration,
	pub realtime.Publisher,
	audit *audit.Dispatcher,
	metrics *metrics.BookingMetrics,
	log *zap.Logger,
) *CreateAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreateAppointment{
		repo:    repo,
		hours:   hours,
		locker:  locker,
		lockTTL: lockTTL,
		pub:     pub,
		audit:   audit,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)

	outcome := "created"
	if err != nil {
		outcome = httperr.Code(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	uc.metrics.ObserveBooking(outcome)

	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia + data / hora local
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("barbershop_not_found")
		}
		return nil, domain.PersistenceError(err)
	}

	loc := timezone.Location(shop.Timezone)

	date, clock, start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, errInvalidDateOrTime
	}

	hours, err := uc.hours.Get(ctx, shop.ID)
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	settings := settingsFor(shop, hours)
	engine := domain.NewEngine(settings, domain.WithClock(uc.now))

	// --------------------------------------------------
	// 2️⃣ ClosedDay (writes require loaded hours)
	// --------------------------------------------------
	if !settings.Policy.AllowsWrite(hours) {
		return nil, domain.ErrClosedDay
	}
	if _, open := engine.WindowFor(date); !open {
		return nil, domain.ErrClosedDay
	}

	// --------------------------------------------------
	// 3️⃣ UnknownService
	// --------------------------------------------------
	service, err := loadService(ctx, uc.repo, shop.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ SlotUnavailable (janela + passado)
	// --------------------------------------------------
	if err := engine.CheckBasic(date, clock, service.DurationMin); err != nil {
		return nil, err
	}

	barber, err := resolveBarber(ctx, uc.repo, shop.ID, in.BarberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ SlotTaken: lock rápido
	// --------------------------------------------------
	release, err := uc.lock(ctx, barber.ID, date, clock)
	if err != nil {
		uc.conflict(shop.ID, barber.ID, date, clock, "lock")
		return nil, err
	}
	defer release()

	// --------------------------------------------------
	// 6️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		shop.ID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	// --------------------------------------------------
	// 7️⃣ SlotTaken: re-checagem na transação + insert
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID: shop.ID,
		BarberID:     barber.ID,
		ClientID:     client.ID,
		ServiceID:    service.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(service.DurationMin) * time.Minute),
		TotalPrice:   service.Price,
		Status:       string(domain.InitialStatus()),
		Notes:        in.Notes,
	}

	dayStart, dayEnd := dayBounds(date, loc)
	err = uc.repo.InsertIfFree(ctx, ap, dayStart, dayEnd, func(active []models.Appointment) error {
		snapshot := domain.RecordsFromModels(active, loc)
		if engine.Conflicts(barber.ID, date, clock, service.DurationMin, snapshot) {
			return domain.ErrSlotTaken
		}
		return nil
	})
	if err != nil {
		if httperr.IsBusiness(err, domain.CodeSlotTaken) {
			uc.conflict(shop.ID, barber.ID, date, clock, "storage")
			return nil, err
		}
		uc.log.Error("appointment insert failed",
			zap.Uint("barbershop_id", shop.ID),
			zap.Uint("barber_id", barber.ID),
			zap.Error(err),
		)
		return nil, domain.PersistenceError(err)
	}

	ap.Client = *client
	ap.Service = *service

	// --------------------------------------------------
	// 8️⃣ Auditoria + realtime
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       in.ActorID,
		Action:       audit.ActionAppointmentCreated,
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"barber_id":  barber.ID,
			"service_id": service.ID,
			"date":       date.String(),
			"time":       clock.String(),
		},
	})

	if uc.pub != nil {
		uc.pub.Publish(realtime.ChangeFromModel(realtime.OpInsert, ap))
	}

	return ap, nil
}

// lock takes the best-effort de-duplication lock for one slot. A held lock
// means another request is booking the same slot right now. Locker failures
// are logged and ignored: the transaction still guards the insert.
func (uc *CreateAppointment) lock(
	ctx context.Context,
	barberID uint,
	date timezone.Date,
	clock timezone.Clock,
) (func(), error) {

	noop := func() {}
	if uc.locker == nil {
		return noop, nil
	}

	key := cache.BookingLockKey(barberID, date.String(), clock.String())
	token, ok, err := uc.locker.Acquire(ctx, key, uc.lockTTL)
	if err != nil {
		uc.log.Warn("booking lock unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return noop, domain.ErrSlotTaken
	}

	return func() {
		// the request context may already be cancelled
		if err := uc.locker.Release(context.Background(), key, token); err != nil {
			uc.log.Warn("booking lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (uc *CreateAppointment) conflict(
	barbershopID uint,
	barberID uint,
	date timezone.Date,
	clock timezone.Clock,
	stage string,
) {
	uc.log.Info("booking conflict",
		zap.Uint("barbershop_id", barbershopID),
		zap.Uint("barber_id", barberID),
		zap.String("date", date.String()),
		zap.String("time", clock.String()),
		zap.String("stage", stage),
	)
	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		Action:       audit.ActionBookingConflict,
		Entity:       "appointment",
		Metadata: map[string]any{
			"barber_id": barberID,
			"date":      date.String(),
			"time":      clock.String(),
			"stage":     stage,
		},
	})
}
