package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/cache"
	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// ======================================================
// OPENING HOURS (cached)
// ======================================================

// HoursCache reads opening hours through the shared cache. Cache failures
// are logged and fall back to the repository.
type HoursCache struct {
	repo  domain.Repository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewHoursCache(
	repo domain.Repository,
	c cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
) *HoursCache {
	if c == nil {
		c = cache.NewNoop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HoursCache{repo: repo, cache: c, ttl: ttl, log: log}
}

func (h *HoursCache) Get(ctx context.Context, barbershopID uint) (domain.OpeningHours, error) {
	key := cache.OpeningHoursKey(barbershopID)

	if raw, found, err := h.cache.Get(ctx, key); err != nil {
		h.log.Warn("opening hours cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		var hours domain.OpeningHours
		if err := json.Unmarshal(raw, &hours); err == nil {
			return hours, nil
		}
	}

	hours, err := h.repo.GetOpeningHours(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	// nil encodes as "null" and is cached too: "unconfigured" is a valid answer
	if raw, err := json.Marshal(hours); err == nil {
		if err := h.cache.Set(ctx, key, raw, h.ttl); err != nil {
			h.log.Warn("opening hours cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return hours, nil
}

func (h *HoursCache) Invalidate(ctx context.Context, barbershopID uint) {
	key := cache.OpeningHoursKey(barbershopID)
	if err := h.cache.Delete(ctx, key); err != nil {
		h.log.Warn("opening hours cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// ======================================================
// SNAPSHOT
// ======================================================

// SnapshotSource loads the active appointments of a barber for one local
// day, through the realtime snapshot store when one is configured.
type SnapshotSource struct {
	repo  domain.Repository
	store *realtime.SnapshotStore
}

func NewSnapshotSource(repo domain.Repository, store *realtime.SnapshotStore) *SnapshotSource {
	return &SnapshotSource{repo: repo, store: store}
}

func (s *SnapshotSource) Load(
	ctx context.Context,
	barberID uint,
	date timezone.Date,
	loc *time.Location,
) ([]domain.Record, error) {

	start, end := dayBounds(date, loc)
	fetch := func(ctx context.Context) ([]models.Appointment, error) {
		return s.repo.ListActiveAppointments(ctx, barberID, start, end)
	}

	var (
		rows []models.Appointment
		err  error
	)
	if s.store != nil {
		rows, err = s.store.Get(ctx, realtime.SnapshotKey{BarberID: barberID, Start: start, End: end}, fetch)
	} else {
		rows, err = fetch(ctx)
	}
	if err != nil {
		return nil, err
	}

	return domain.RecordsFromModels(rows, loc), nil
}

// ======================================================
// HELPERS
// ======================================================

func dayBounds(date timezone.Date, loc *time.Location) (time.Time, time.Time) {
	return timezone.StartOfDay(date, loc), timezone.StartOfDay(date.AddDays(1), loc)
}

func settingsFor(shop *models.Barbershop, hours domain.OpeningHours) domain.Settings {
	policy := domain.DefaultPolicy()
	policy.FailOpenOnUnloadedConfig = shop.FailOpenOnUnloadedConfig

	return domain.Settings{
		Hours:       hours,
		Policy:      policy,
		IntervalMin: shop.SlotIntervalMinutes,
		MarginMin:   shop.MinAdvanceMinutes,
		Location:    timezone.Location(shop.Timezone),
	}
}

// resolveBarber returns the requested barber of the shop, or the default
// one when barberID is zero.
func resolveBarber(
	ctx context.Context,
	repo domain.Repository,
	barbershopID uint,
	barberID uint,
) (*models.User, error) {

	var (
		barber *models.User
		err    error
	)
	if barberID == 0 {
		barber, err = repo.GetDefaultBarber(ctx, barbershopID)
	} else {
		barber, err = repo.GetBarber(ctx, barbershopID, barberID)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBarberNotFound
	}
	if err != nil {
		return nil, domain.PersistenceError(err)
	}
	return barber, nil
}

func loadService(
	ctx context.Context,
	repo domain.Repository,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	service, err := repo.GetService(ctx, barbershopID, serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUnknownService
	}
	if err != nil {
		return nil, domain.PersistenceError(err)
	}
	if service.DurationMin <= 0 {
		return nil, domain.ErrUnknownService
	}
	return service, nil
}
