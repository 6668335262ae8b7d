package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/mood/pkg/metrics"
	"tableflip.dev/mood/pkg/store"
)

// Reconcile re-reads the persisted state and adopts it when it differs from
// memory, notifying subscribers. It reports whether anything was adopted.
// Running it against consistent state does nothing.
func (s *Service) Reconcile(ctx context.Context) (bool, error) {
	if s.Persistence == nil {
		return false, errNoPersistence
	}
	s.init()
	s.mu.Lock()
	s.ensureLoadedLocked(ctx)
	st, err := s.Persistence.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNoState):
		st = s.missingStateLocked()
	case errors.Is(err, store.ErrCorrupt):
		// Keep memory; the next write replaces the document.
		s.mu.Unlock()
		metrics.Reconciliations.WithLabelValues("error").Inc()
		s.log().Warn("ignoring unreadable mood state during reconcile", "err", err)
		return false, nil
	default:
		s.mu.Unlock()
		metrics.Reconciliations.WithLabelValues("error").Inc()
		return false, fmt.Errorf("app: reconcile: %w", err)
	}
	update, adopted := s.adoptLocked(st, UpdateReconciled)
	s.mu.Unlock()

	if !adopted {
		metrics.Reconciliations.WithLabelValues("noop").Inc()
		return false, nil
	}
	metrics.Reconciliations.WithLabelValues("applied").Inc()
	s.log().Debug("adopted persisted mood state", "writer", st.Writer, "days", len(st.History))
	s.hub.publish(update)
	return true, nil
}

// Run keeps the service in step with writes made by other execution contexts
// until ctx is done. Storage change events and a periodic timer both trigger
// Reconcile. When the calendar day rolls over, subscribers get a fresh update
// so today's record is re-evaluated.
func (s *Service) Run(ctx context.Context) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.init()
	poll := s.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	events, err := s.Persistence.Watch(ctx)
	if err != nil {
		s.log().Warn("storage watch unavailable, polling only", "err", err)
		events = nil
	}

	reconcile := func(reason string) {
		if _, err := s.Reconcile(ctx); err != nil && ctx.Err() == nil {
			s.log().Warn("reconcile failed", "reason", reason, "err", err)
		}
	}
	reconcile("start")

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	day := s.Today()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				s.log().Debug("storage watch closed")
				events = nil
				continue
			}
			reconcile(ev.Type.String())
		case <-ticker.C:
			reconcile("poll")
			if today := s.Today(); today != day {
				day = today
				s.rollover()
			}
		}
	}
}

func (s *Service) rollover() {
	s.mu.Lock()
	update := s.commitLocked(s.state, UpdateReconciled)
	s.mu.Unlock()
	s.log().Debug("calendar day changed", "today", update.Today)
	s.hub.publish(update)
}
