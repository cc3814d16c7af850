package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/metrics"
)

// ======================================================
// OUTPUT
// ======================================================

type AvailabilityResult struct {
	Date      string            `json:"date"`
	BarberID  uint              `json:"barber_id"`
	ServiceID uint              `json:"service_id"`
	Duration  int               `json:"duration_min"`
	Open      bool              `json:"open"`
	Slots     []domain.TimeSlot `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo      domain.Repository
	hours     *HoursCache
	snapshots *SnapshotSource
	audit     *audit.Dispatcher
	metrics   *metrics.BookingMetrics
	log       *zap.Logger

	now func() time.Time

	// corrupt rows are audited once per process
	reported sync.Map
}

func NewGetAvailability(
	repo domain.Repository,
	hours *HoursCache,
	snapshots *SnapshotSource,
	audit *audit.Dispatcher,
	metrics *metrics.BookingMetrics,
	log *zap.Logger,
) *GetAvailability {
	if log == nil {
		log = zap.NewNop()
	}
	return &GetAvailability{
		repo:      repo,
		hours:     hours,
		snapshots: snapshots,
		audit:     audit,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	started := time.Now()
	res, err := uc.execute(ctx, in)

	status := "ok"
	slots := 0
	if err != nil {
		status = httperr.Code(err)
		if status == "" {
			status = "error"
		}
	} else {
		slots = len(res.Slots)
		if !res.Open {
			status = domain.CodeClosedDay
		}
	}
	uc.metrics.ObserveAvailability(status, slots, time.Since(started).Seconds())

	return res, err
}

func (uc *GetAvailability) execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	// --------------------------------------------------
	// Barbearia + horário de funcionamento
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("barbershop_not_found")
		}
		return nil, domain.PersistenceError(err)
	}

	hours, err := uc.hours.Get(ctx, shop.ID)
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	// --------------------------------------------------
	// Serviço + barbeiro
	// --------------------------------------------------
	service, err := loadService(ctx, uc.repo, shop.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	barber, err := resolveBarber(ctx, uc.repo, shop.ID, in.BarberID)
	if err != nil {
		return nil, err
	}

	engine := domain.NewEngine(
		settingsFor(shop, hours),
		domain.WithClock(uc.now),
		domain.WithCorruptReporter(uc.reportCorrupt(shop.ID)),
	)

	res := &AvailabilityResult{
		Date:      in.Date.String(),
		BarberID:  barber.ID,
		ServiceID: service.ID,
		Duration:  service.DurationMin,
		Slots:     []domain.TimeSlot{},
	}

	// closed days never touch the appointments table
	if _, open := engine.WindowFor(in.Date); !open {
		return res, nil
	}
	res.Open = true

	// --------------------------------------------------
	// Snapshot + cálculo
	// --------------------------------------------------
	snapshot, err := uc.snapshots.Load(ctx, barber.ID, in.Date, engine.Location())
	if err != nil {
		return nil, domain.PersistenceError(err)
	}

	free := engine.ListAvailableSlots(barber.ID, in.Date, service.DurationMin, snapshot)
	res.Slots = domain.TimeSlots(free, service.DurationMin)

	return res, nil
}

func (uc *GetAvailability) reportCorrupt(barbershopID uint) domain.CorruptReporter {
	return func(r domain.Record) {
		uc.metrics.ObserveCorruptRecord()
		uc.log.Warn("skipping corrupt appointment",
			zap.Uint("appointment_id", r.ID),
			zap.Uint("barber_id", r.BarberID),
			zap.String("date", r.Date.String()),
			zap.String("start", r.Start.String()),
			zap.String("end", r.End.String()),
		)

		if _, seen := uc.reported.LoadOrStore(r.ID, struct{}{}); seen {
			return
		}
		id := r.ID
		uc.audit.Dispatch(audit.Event{
			BarbershopID: barbershopID,
			Action:       audit.ActionCorruptRecord,
			Entity:       "appointment",
			EntityID:     &id,
			Metadata: map[string]any{
				"code":  domain.CodeCorruptRecord,
				"start": r.Start.String(),
				"end":   r.End.String(),
			},
		})
	}
}
