package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/classify"
	"tableflip.dev/mood/pkg/inference"
	"tableflip.dev/mood/pkg/metrics"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/store"
	"tableflip.dev/mood/pkg/timeutil"
)

const (
	// DefaultPollInterval is the reconciliation period used when none is set.
	DefaultPollInterval = 3 * time.Second
	// DefaultInferenceTimeout bounds one remote inference call.
	DefaultInferenceTimeout = 20 * time.Second
)

var (
	errNoPersistence = errors.New("app: no persistence configured")
	errClosed        = errors.New("app: service closed")
)

// Service owns the mood record store of one execution context. It keeps the
// persisted state and its in-memory copy in agreement and fans updates out to
// in-process subscribers. UIs, the CLI and the MCP server share it.
type Service struct {
	Persistence store.Persistence
	// Inferrer is optional; without it Chat only classifies locally.
	Inferrer   inference.Inferrer
	Classifier *classify.Classifier
	Logger     *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location decides which calendar day a sample belongs to. Defaults to
	// time.Local.
	Location         *time.Location
	PollInterval     time.Duration
	InferenceTimeout time.Duration

	initOnce sync.Once
	writer   string
	hub      *hub
	inflight sync.WaitGroup

	mu     sync.Mutex
	loaded bool
	state  store.State
	seq    uint64
	closed bool
	// migrationUnsaved is set while memory holds a legacy import that could
	// not be written. The next successful write carries it to disk.
	migrationUnsaved bool
}

func (s *Service) init() {
	s.initOnce.Do(func() {
		s.writer = uuid.NewString()
		s.hub = newHub()
	})
}

// Writer is the identity this context stamps on the state it persists.
func (s *Service) Writer() string {
	s.init()
	return s.writer
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// Today is the current calendar day in the service's location.
func (s *Service) Today() timeutil.Date {
	return timeutil.DateOf(s.now(), s.location())
}

// ensureLoadedLocked performs the cold start on first use. A corrupt document
// is discarded and the service starts empty. Callers hold s.mu.
func (s *Service) ensureLoadedLocked(ctx context.Context) {
	s.init()
	if s.loaded || s.Persistence == nil {
		return
	}
	st, err := s.Persistence.Load(ctx)
	switch {
	case err == nil:
		s.state = st
	case errors.Is(err, store.ErrNoState):
		if migrated, ok, err := s.migrateLegacyLocked(ctx); ok {
			s.state = migrated
			s.migrationUnsaved = err != nil
		} else {
			s.state = store.State{}
		}
	case errors.Is(err, store.ErrCorrupt):
		s.log().Warn("discarding unreadable mood state", "err", err)
		metrics.CorruptStateRecoveries.Inc()
		s.state = store.State{}
	default:
		// Not marked loaded, the next call retries the read.
		s.log().Warn("failed to read mood state", "err", err)
		return
	}
	s.loaded = true
}

// latestLocked returns the newest persisted state to merge a write into,
// falling back to memory when the blob cannot be read.
func (s *Service) latestLocked(ctx context.Context) store.State {
	s.ensureLoadedLocked(ctx)
	st, err := s.Persistence.Load(ctx)
	switch {
	case err == nil:
		return st
	case errors.Is(err, store.ErrNoState):
		return s.missingStateLocked()
	case errors.Is(err, store.ErrCorrupt):
		s.log().Warn("overwriting unreadable mood state", "err", err)
		metrics.CorruptStateRecoveries.Inc()
		return s.state
	default:
		s.log().Warn("failed to read mood state before write", "err", err)
		return s.state
	}
}

// missingStateLocked is what a write or reconcile starts from when nothing is
// persisted: either it was never written or another process removed it. An
// unsaved legacy import stays in memory.
func (s *Service) missingStateLocked() store.State {
	if s.migrationUnsaved {
		return s.state
	}
	return store.State{LegacyMigrated: s.state.LegacyMigrated}
}

// RecordSignal merges one sample into the history under its local calendar
// day and persists the result before notifying subscribers. A sample that is
// older than, or equivalent to, the stored one for that day changes nothing
// and emits nothing. It returns the record now stored for the sample's day.
// A day older than every day a full history keeps fails with
// mood.ErrOutsideWindow. When the write fails nothing changes in memory and
// nothing is broadcast.
func (s *Service) RecordSignal(ctx context.Context, sample mood.Sample) (mood.DayRecord, error) {
	if s.Persistence == nil {
		return mood.DayRecord{}, errNoPersistence
	}
	s.init()
	if sample.Timestamp.IsZero() {
		sample.Timestamp = s.now()
	}
	sample = mood.NewSample(sample.Label, sample.Score, sample.Source, sample.Timestamp)
	rec := mood.DayRecord{
		Date:   timeutil.DateOf(sample.Timestamp, s.location()),
		Sample: sample,
	}

	s.mu.Lock()
	base := s.latestLocked(ctx)
	if base.History.OutsideWindow(rec.Date) {
		s.mu.Unlock()
		return mood.DayRecord{}, fmt.Errorf("app: record %s: %w", rec.Date, mood.ErrOutsideWindow)
	}
	next, changed := base.History.Apply(rec)
	if !changed {
		// Memory may still lag another writer.
		update, adopted := s.adoptLocked(base, UpdateReconciled)
		stored, ok := base.History.Find(rec.Date)
		s.mu.Unlock()
		if adopted {
			s.hub.publish(update)
		}
		if !ok {
			return mood.DayRecord{}, fmt.Errorf("app: record %s: %w", rec.Date, mood.ErrOutsideWindow)
		}
		metrics.SignalsUnchanged.Inc()
		s.log().Debug("mood signal unchanged", "date", rec.Date, "label", rec.Sample.Label, "source", rec.Sample.Source)
		return stored, nil
	}

	st := s.nextStateLocked(next)
	if err := s.Persistence.Save(st); err != nil {
		s.mu.Unlock()
		metrics.PersistErrors.Inc()
		s.log().Error("failed to persist mood state", "err", err)
		return mood.DayRecord{}, fmt.Errorf("app: persist mood state: %w", err)
	}
	s.migrationUnsaved = false
	update := s.commitLocked(st, UpdateRecorded)
	s.mu.Unlock()

	s.hub.publish(update)
	metrics.SignalsRecorded.WithLabelValues(string(rec.Sample.Source)).Inc()
	s.log().Debug("mood signal recorded", "date", rec.Date, "label", rec.Sample.Label, "score", rec.Sample.Score, "source", rec.Sample.Source)
	return rec, nil
}

// RecordManualMood records an explicit choice. A nil score takes the default
// score of the label.
func (s *Service) RecordManualMood(ctx context.Context, label string, score *int) (mood.DayRecord, error) {
	v := classify.DefaultScore(mood.NormalizeLabel(label))
	if score != nil {
		v = *score
	}
	return s.RecordSignal(ctx, mood.NewSample(label, v, mood.SourceManual, s.now()))
}

// RecordManualMoodInput records a manual choice whose score is raw user text.
// Unparseable text scores 0; an empty string takes the label default.
func (s *Service) RecordManualMoodInput(ctx context.Context, label, rawScore string) (mood.DayRecord, error) {
	if rawScore == "" {
		return s.RecordManualMood(ctx, label, nil)
	}
	v := mood.ParseScore(rawScore)
	return s.RecordManualMood(ctx, label, &v)
}

// RecordManualMoodOn records a manual choice for an explicit calendar day.
// Days after today fail with mood.ErrFutureDate.
func (s *Service) RecordManualMoodOn(ctx context.Context, day timeutil.Date, label string, score *int) (mood.DayRecord, error) {
	today := s.Today()
	if day.IsZero() || day == today {
		return s.RecordManualMood(ctx, label, score)
	}
	if day.After(today) {
		return mood.DayRecord{}, fmt.Errorf("app: record %s: %w", day, mood.ErrFutureDate)
	}
	v := classify.DefaultScore(mood.NormalizeLabel(label))
	if score != nil {
		v = *score
	}
	// Noon of that day keeps the sample on its date in any location.
	at := day.Time(s.location()).Add(12 * time.Hour)
	return s.RecordSignal(ctx, mood.NewSample(label, v, mood.SourceManual, at))
}

// RecordText classifies free text locally and records the result.
func (s *Service) RecordText(ctx context.Context, text string) (mood.DayRecord, error) {
	label, score := s.Classifier.Classify(text)
	return s.RecordSignal(ctx, mood.NewSample(label, score, mood.SourceLocalHeuristic, s.now()))
}

// RecordRemoteInference records a remote classification. intensity is on a
// 0-10 scale where higher means heavier.
func (s *Service) RecordRemoteInference(ctx context.Context, label string, intensity float64) (mood.DayRecord, error) {
	return s.RecordSignal(ctx, mood.NewSample(label, mood.IntensityScore(intensity), mood.SourceRemoteInference, s.now()))
}

// Current returns today's record, if any.
func (s *Service) Current() (mood.DayRecord, bool) {
	return s.History().Find(s.Today())
}

// History returns a copy of the ordered history.
func (s *Service) History() mood.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Persistence != nil {
		s.ensureLoadedLocked(context.Background())
	}
	return s.state.History.Clone()
}

// Stats computes the aggregate view as of today.
func (s *Service) Stats() aggregate.Stats {
	return aggregate.Compute(s.History(), s.Today())
}

// Clear removes every record, persists the empty state and notifies
// subscribers.
func (s *Service) Clear(ctx context.Context) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.init()
	s.mu.Lock()
	s.ensureLoadedLocked(ctx)
	st := s.nextStateLocked(nil)
	if err := s.Persistence.Save(st); err != nil {
		s.mu.Unlock()
		metrics.PersistErrors.Inc()
		s.log().Error("failed to persist cleared mood state", "err", err)
		return fmt.Errorf("app: persist cleared state: %w", err)
	}
	s.migrationUnsaved = false
	update := s.commitLocked(st, UpdateCleared)
	s.mu.Unlock()

	s.hub.publish(update)
	s.log().Info("mood history cleared")
	return nil
}

// Close stops new remote inference calls, waits for in-flight merges and
// closes all subscriptions.
func (s *Service) Close() {
	s.init()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.inflight.Wait()
	s.hub.close()
}

// startInference registers one remote call with Close. It reports false once
// the service is closed.
func (s *Service) startInference() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *Service) nextStateLocked(h mood.History) store.State {
	st := store.State{
		Schema:         store.CurrentSchema,
		History:        h,
		Writer:         s.writer,
		Updated:        s.now().UTC(),
		LegacyMigrated: true,
	}
	if rec, ok := h.Find(s.Today()); ok {
		st.Current = &rec
	}
	return st
}

// commitLocked replaces the in-memory state and returns the update to publish
// once the lock is released.
func (s *Service) commitLocked(st store.State, kind UpdateKind) Update {
	s.state = st
	s.loaded = true
	s.seq++
	return s.updateLocked(kind)
}

// adoptLocked takes persisted state into memory when its history differs.
func (s *Service) adoptLocked(st store.State, kind UpdateKind) (Update, bool) {
	if s.loaded && st.History.Equal(s.state.History) {
		return Update{}, false
	}
	return s.commitLocked(st, kind), true
}

func (s *Service) updateLocked(kind UpdateKind) Update {
	today := s.Today()
	h := s.state.History.Clone()
	u := Update{
		Seq:     s.seq,
		Kind:    kind,
		Today:   today,
		History: h,
		Stats:   aggregate.Compute(h, today),
	}
	if rec, ok := h.Find(today); ok {
		u.Current = &rec
	}
	return u
}
