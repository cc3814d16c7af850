package appointment

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

// fakeRepo is an in-memory Repository. InsertIfFree serializes writers and
// enforces the active-overlap constraint like the database does.
type fakeRepo struct {
	mu sync.Mutex

	shop     models.Barbershop
	hours    domain.OpeningHours
	barbers  map[uint]models.User
	services map[uint]models.Service
	clients  []models.Client

	appointments []models.Appointment
	nextID       uint

	hoursCalls  int
	activeCalls int
	insertCalls int

	insertErr   error
	insertDelay time.Duration

	// beforeUpdate runs under the lock right before UpdateAppointment
	// compares statuses, standing in for a concurrent writer.
	beforeUpdate func(ap *models.Appointment)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop: models.Barbershop{
			ID:                       1,
			Name:                     "Navalha",
			Slug:                     "navalha",
			Timezone:                 "UTC",
			MinAdvanceMinutes:        1,
			SlotIntervalMinutes:      15,
			FailOpenOnUnloadedConfig: true,
		},
		hours: domain.OpeningHours{
			"monday":  {Open: "09:00", Close: "18:00"},
			"tuesday": {Open: "09:00", Close: "18:00"},
		},
		barbers: map[uint]models.User{
			7: {ID: 7, BarbershopID: 1, Name: "Rafa", Role: models.RoleOwner},
			8: {ID: 8, BarbershopID: 1, Name: "Leo", Role: models.RoleBarber},
		},
		services: map[uint]models.Service{
			2: {ID: 2, BarbershopID: 1, Name: "Corte", DurationMin: 30, Price: 40, Active: true},
			3: {ID: 3, BarbershopID: 1, Name: "Barba", DurationMin: 60, Price: 35, Active: true},
		},
		nextID: 100,
	}
}

func (r *fakeRepo) add(ap models.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.BarbershopID == 0 {
		ap.BarbershopID = 1
	}
	r.appointments = append(r.appointments, ap)
}

func (r *fakeRepo) count(status domain.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ap := range r.appointments {
		if ap.Status == string(status) {
			n++
		}
	}
	return n
}

func (r *fakeRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	if id != r.shop.ID {
		return nil, gorm.ErrRecordNotFound
	}
	shop := r.shop
	return &shop, nil
}

func (r *fakeRepo) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	if slug != r.shop.Slug {
		return nil, gorm.ErrRecordNotFound
	}
	shop := r.shop
	return &shop, nil
}

func (r *fakeRepo) GetOpeningHours(ctx context.Context, barbershopID uint) (domain.OpeningHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hoursCalls++
	return r.hours, nil
}

func (r *fakeRepo) GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.User, error) {
	b, ok := r.barbers[barberID]
	if !ok || b.BarbershopID != barbershopID {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *fakeRepo) GetDefaultBarber(ctx context.Context, barbershopID uint) (*models.User, error) {
	return r.GetBarber(ctx, barbershopID, 7)
}

func (r *fakeRepo) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.BarbershopID != barbershopID || !s.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeRepo) GetOrCreateClient(ctx context.Context, barbershopID uint, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.BarbershopID == barbershopID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Client{ID: uint(len(r.clients) + 1), BarbershopID: barbershopID, Name: name, Phone: phone, Email: email}
	r.clients = append(r.clients, c)
	return &c, nil
}

func (r *fakeRepo) activeLocked(barberID uint, start, end time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		st, ok := domain.ParseStatus(ap.Status)
		if ap.BarberID != barberID || !ok || !st.IsActive() {
			continue
		}
		if ap.StartTime.Before(end) && (ap.EndTime.After(start) || !ap.StartTime.Before(start)) {
			out = append(out, ap)
		}
	}
	return out
}

func (r *fakeRepo) ListActiveAppointments(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeCalls++
	return r.activeLocked(barberID, start, end), nil
}

func (r *fakeRepo) InsertIfFree(ctx context.Context, ap *models.Appointment, dayStart, dayEnd time.Time, check domain.SlotCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++

	if r.insertDelay > 0 {
		time.Sleep(r.insertDelay)
	}

	if err := check(r.activeLocked(ap.BarberID, dayStart, dayEnd)); err != nil {
		return err
	}
	if r.insertErr != nil {
		return r.insertErr
	}

	// storage constraint
	for _, other := range r.activeLocked(ap.BarberID, ap.StartTime, ap.EndTime) {
		if other.EndTime.After(other.StartTime) {
			return domain.ErrSlotTaken
		}
	}

	r.nextID++
	ap.ID = r.nextID
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *fakeRepo) GetAppointmentForBarber(ctx context.Context, appointmentID, barberID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == appointmentID && ap.BarberID == barberID {
			out := ap
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment, fromStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			if r.beforeUpdate != nil {
				r.beforeUpdate(&r.appointments[i])
			}
			if r.appointments[i].Status != fromStatus {
				return domain.ErrStatusChanged
			}
			r.appointments[i] = *ap
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID == barberID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
