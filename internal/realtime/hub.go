package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Publisher is what writers use to announce a change.
type Publisher interface {
	Publish(c Change)
}

type subscription struct {
	ch chan Change
}

// Hub fans changes out to per-barbershop subscribers. Hooks registered with
// OnChange run synchronously on Publish, before any subscriber is served.
type Hub struct {
	mu    sync.RWMutex
	subs  map[uint]map[*subscription]struct{}
	hooks []func(Change)
	log   *zap.Logger

	buffer int
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[uint]map[*subscription]struct{}),
		log:    log,
		buffer: 32,
	}
}

func (h *Hub) OnChange(fn func(Change)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, fn)
}

// Subscribe returns a channel of changes for barbershopID and a cancel
// func that must be called to release it.
func (h *Hub) Subscribe(barbershopID uint) (<-chan Change, func()) {
	sub := &subscription{ch: make(chan Change, h.buffer)}

	h.mu.Lock()
	if h.subs[barbershopID] == nil {
		h.subs[barbershopID] = make(map[*subscription]struct{})
	}
	h.subs[barbershopID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[barbershopID], sub)
			if len(h.subs[barbershopID]) == 0 {
				delete(h.subs, barbershopID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish never blocks: a subscriber whose buffer is full misses the change.
func (h *Hub) Publish(c Change) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, fn := range h.hooks {
		fn(c)
	}

	for sub := range h.subs[c.BarbershopID] {
		select {
		case sub.ch <- c:
		default:
			h.log.Warn("realtime subscriber lagging, dropping change",
				zap.Uint("barbershop_id", c.BarbershopID),
				zap.Uint("appointment_id", c.ID),
			)
		}
	}
}
