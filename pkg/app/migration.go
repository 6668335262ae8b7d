package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/mood/pkg/classify"
	"tableflip.dev/mood/pkg/metrics"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/store"
)

// MigrationReport describes the legacy key import.
type MigrationReport struct {
	// CanonicalPresent is true when the state document already existed.
	CanonicalPresent bool            `json:"canonicalPresent"`
	LegacyMigrated   bool            `json:"legacyMigrated"`
	LegacyFound      bool            `json:"legacyFound"`
	Migrated         bool            `json:"migrated"`
	Record           *mood.DayRecord `json:"record,omitempty"`
	Checkins         int             `json:"checkins"`
}

// Migrate imports the legacy per-screen keys into the state document when no
// document exists yet. It never writes the legacy keys and never runs twice.
func (s *Service) Migrate(ctx context.Context) (MigrationReport, error) {
	if s.Persistence == nil {
		return MigrationReport{}, errNoPersistence
	}
	s.init()
	legacy, err := s.Persistence.Legacy(ctx)
	if err != nil {
		return MigrationReport{}, fmt.Errorf("app: read legacy keys: %w", err)
	}
	report := MigrationReport{LegacyFound: legacy.Found, Checkins: legacy.Checkins}

	s.mu.Lock()
	st, err := s.Persistence.Load(ctx)
	switch {
	case err == nil:
		s.mu.Unlock()
		report.CanonicalPresent = true
		report.LegacyMigrated = st.LegacyMigrated
		return report, nil
	case errors.Is(err, store.ErrNoState), errors.Is(err, store.ErrCorrupt):
	default:
		s.mu.Unlock()
		return report, fmt.Errorf("app: migrate: %w", err)
	}

	migrated, ok, err := s.migrateLegacyLocked(ctx)
	if !ok {
		s.mu.Unlock()
		return report, nil
	}
	if err != nil {
		s.mu.Unlock()
		return report, fmt.Errorf("app: persist migrated state: %w", err)
	}
	s.migrationUnsaved = false
	update := s.commitLocked(migrated, UpdateReconciled)
	s.mu.Unlock()
	s.hub.publish(update)

	report.Migrated = true
	report.LegacyMigrated = true
	if len(migrated.History) > 0 {
		rec := migrated.History[len(migrated.History)-1]
		report.Record = &rec
	}
	return report, nil
}

// migrateLegacyLocked builds and persists the state imported from the legacy
// keys. It reports false when there is nothing to import, and the write error
// when the imported state could not be saved.
func (s *Service) migrateLegacyLocked(ctx context.Context) (store.State, bool, error) {
	legacy, err := s.Persistence.Legacy(ctx)
	if err != nil {
		s.log().Warn("failed to read legacy mood keys", "err", err)
		return store.State{}, false, nil
	}
	if !legacy.Found {
		return store.State{}, false, nil
	}

	label := mood.NormalizeLabel(legacy.Label)
	score := classify.DefaultScore(label)
	if legacy.RawScore != "" {
		score = mood.ParseScore(legacy.RawScore)
	}
	day := legacy.Date
	if day.IsZero() {
		day = s.Today()
	}
	// Start of the day, so any sample recorded later that day wins.
	rec := mood.DayRecord{
		Date:   day,
		Sample: mood.NewSample(label, score, mood.SourceManual, day.Time(s.location())),
	}
	h, _ := mood.History(nil).Apply(rec)
	st := s.nextStateLocked(h)
	if err := s.Persistence.Save(st); err != nil {
		metrics.PersistErrors.Inc()
		s.log().Error("failed to persist migrated mood state", "err", err)
		return st, true, err
	}
	s.log().Info("migrated legacy mood keys", "date", day, "label", label, "score", score)
	return st, true, nil
}
