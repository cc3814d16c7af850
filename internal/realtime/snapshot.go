package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/domain/appointment"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
)

// FetchFunc loads the active appointments of one barber overlapping
// [start, end).
type FetchFunc func(ctx context.Context) ([]models.Appointment, error)

type SnapshotKey struct {
	BarberID uint
	Start    time.Time
	End      time.Time
}

func (k SnapshotKey) String() string {
	return fmt.Sprintf("%d:%d:%d", k.BarberID, k.Start.Unix(), k.End.Unix())
}

type snapshotEntry struct {
	key     SnapshotKey
	rows    map[uint]models.Appointment
	expires time.Time
}

// SnapshotStore keeps recent per-barber appointment snapshots and keeps
// them current by applying change notifications by primary key.
type SnapshotStore struct {
	mu      sync.Mutex
	entries map[string]*snapshotEntry
	version uint64

	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	group        singleflight.Group
}

const defaultFetchTimeout = 10 * time.Second

func NewSnapshotStore(ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		entries:      make(map[string]*snapshotEntry),
		ttl:          ttl,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
}

// Get returns the cached snapshot for key or loads it with fetch. Concurrent
// loads of one key share a single fetch, which runs detached from any one
// caller's cancellation and is bounded by fetchTimeout instead. A caller that
// gives up only stops waiting. A load that raced with Apply is returned to its
// callers but not cached.
func (s *SnapshotStore) Get(ctx context.Context, key SnapshotKey, fetch FetchFunc) ([]models.Appointment, error) {
	if s.ttl <= 0 {
		return fetch(ctx)
	}

	id := key.String()

	s.mu.Lock()
	if e, ok := s.entries[id]; ok && s.now().Before(e.expires) {
		rows := e.list()
		s.mu.Unlock()
		return rows, nil
	}
	s.mu.Unlock()

	ch := s.group.DoChan(id, func() (any, error) {
		s.mu.Lock()
		before := s.version
		s.mu.Unlock()

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		rows, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.version == before {
			s.store(key, rows)
		}
		s.mu.Unlock()
		return rows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rows := res.Val.([]models.Appointment)
		out := make([]models.Appointment, len(rows))
		copy(out, rows)
		return out, nil
	}
}

// Seed stores rows for key unconditionally.
func (s *SnapshotStore) Seed(key SnapshotKey, rows []models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(key, rows)
}

// Apply reconciles c into every cached snapshot: the row is removed by id
// everywhere and re-added where it is active and overlaps the snapshot range.
func (s *SnapshotStore) Apply(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++

	row := c.Appointment()
	status, known := appointment.ParseStatus(c.Status)
	keep := c.Op != OpDelete && known && status.IsActive()

	for id, e := range s.entries {
		if !s.now().Before(e.expires) {
			delete(s.entries, id)
			continue
		}
		delete(e.rows, c.ID)
		if keep && e.key.BarberID == c.BarberID &&
			row.StartTime.Before(e.key.End) && row.EndTime.After(e.key.Start) {
			e.rows[c.ID] = row
		}
	}
}

func (s *SnapshotStore) Invalidate(barberID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	for id, e := range s.entries {
		if e.key.BarberID == barberID {
			delete(s.entries, id)
		}
	}
}

func (s *SnapshotStore) store(key SnapshotKey, rows []models.Appointment) {
	e := &snapshotEntry{
		key:     key,
		rows:    make(map[uint]models.Appointment, len(rows)),
		expires: s.now().Add(s.ttl),
	}
	for _, r := range rows {
		e.rows[r.ID] = r
	}
	s.entries[key.String()] = e
}

func (e *snapshotEntry) list() []models.Appointment {
	out := make([]models.Appointment, 0, len(e.rows))
	for _, r := range e.rows {
		out = append(out, r)
	}
	return out
}
