package app

import (
	"sync"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/metrics"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

// UpdateKind says what produced an Update.
type UpdateKind int

const (
	UpdateRecorded UpdateKind = iota
	UpdateCleared
	UpdateReconciled
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateRecorded:
		return "recorded"
	case UpdateCleared:
		return "cleared"
	case UpdateReconciled:
		return "reconciled"
	default:
		return "unknown"
	}
}

// Update is the snapshot delivered to subscribers after the store changed.
type Update struct {
	Seq     uint64
	Kind    UpdateKind
	Today   timeutil.Date
	Current *mood.DayRecord
	History mood.History
	Stats   aggregate.Stats
}

// hub fans updates out to subscribers. Each subscriber holds at most one
// pending update; a newer one replaces it.
type hub struct {
	mu     sync.Mutex
	subs   map[chan Update]struct{}
	last   uint64
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan Update]struct{})}
}

func (h *hub) subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	metrics.Subscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
				metrics.Subscribers.Dec()
			}
		})
	}
}

func (h *hub) publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Publishing happens outside the service lock, so an older snapshot can
	// arrive after a newer one.
	if h.closed || u.Seq <= h.last {
		return
	}
	h.last = u.Seq
	for ch := range h.subs {
		select {
		case ch <- u:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
		metrics.Subscribers.Dec()
	}
}

// Subscribe returns a channel of store updates and a function that ends the
// subscription. A subscriber that falls behind only sees the latest update.
func (s *Service) Subscribe() (<-chan Update, func()) {
	s.init()
	return s.hub.subscribe()
}
