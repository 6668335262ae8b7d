package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventStateChanged indicates the canonical state document was written,
	// replaced or removed, or that the watcher lost track and callers should
	// re-read it.
	EventStateChanged EventType = iota

	// EventLegacyChanged indicates one of the legacy keys changed.
	EventLegacyChanged
)

func (t EventType) String() string {
	switch t {
	case EventStateChanged:
		return "state"
	case EventLegacyChanged:
		return "legacy"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Key  string
}

// ThrottleDelay is how long the watcher waits to coalesce a burst of file
// events into one notification.
const ThrottleDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid dropped events. The channel is closed once ctx is
// done or the watcher fails.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				slog.Debug("store: watcher close", "error", err)
			}
		})
	}

	// diskv writes into the temp dir and renames into the base path, so the
	// base path alone sees every completed write.
	if err := watcher.Add(p.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", p.basePath, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop when the consumer is behind. Every event means
				// "re-read", so a queued one already covers this change.
			}
		}

		throttle := newEventThrottle(ThrottleDelay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Debug("store: watcher error", "error", err)
				throttle.Enqueue(Event{Type: EventStateChanged, Key: StateKey}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev, ok := classifyPath(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// classifyPath maps a file event to the key it concerns. Anything that is
// not a known key (the temp dir, stray files) is ignored.
func classifyPath(path string) (Event, bool) {
	switch key := filepath.Base(path); key {
	case StateKey:
		return Event{Type: EventStateChanged, Key: key}, true
	case LegacyMoodKey, LegacyScoreKey, LegacyDateKey, LegacyCheckinsKey:
		return Event{Type: EventLegacyChanged, Key: key}, true
	default:
		return Event{}, false
	}
}

// eventThrottle coalesces rapid change notifications so consumers reconcile
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	// send never blocks, so it runs under the lock; Stop then guarantees no
	// send happens after the events channel is closed.
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	pending := t.pending
	t.pending = make(map[Event]struct{})
	t.timer = nil

	for ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
