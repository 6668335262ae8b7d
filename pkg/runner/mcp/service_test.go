package mcp

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/store"
)

type testConfig struct {
	path string
}

func (c testConfig) BasePath() string {
	return c.path
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	p, err := store.Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	now := time.Date(2025, time.April, 3, 10, 0, 0, 0, time.UTC)
	return NewService(&app.Service{
		Persistence: p,
		Clock:       func() time.Time { return now },
		Location:    time.UTC,
	})
}

func TestServiceRecordMoodDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	dto, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "Happy"})
	if err != nil {
		t.Fatalf("RecordMood failed: %v", err)
	}
	if dto.Label != "happy" || dto.Score != 85 || dto.Source != "manual" {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.Date != "2025-04-03" || dto.Bucket != "positive" || dto.Intensity != 4 {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestServiceRecordMoodValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "  "}); err == nil {
		t.Fatalf("expected error for empty label")
	}
	if _, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "sad", Date: "yesterday"}); err == nil {
		t.Fatalf("expected error for bad date")
	}
	dto, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "sad", Score: "NaN"})
	if err != nil {
		t.Fatalf("RecordMood failed: %v", err)
	}
	if dto.Score != 0 {
		t.Fatalf("expected NaN score coerced to 0, got %d", dto.Score)
	}
}

func TestServiceRecordMoodOnDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	dto, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "calm", Score: "72", Date: "2025-04-01"})
	if err != nil {
		t.Fatalf("RecordMood failed: %v", err)
	}
	if dto.Date != "2025-04-01" || dto.Score != 72 {
		t.Fatalf("unexpected dto %+v", dto)
	}
	cur, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if cur.Found || cur.Today != "2025-04-03" {
		t.Fatalf("expected no record today, got %+v", cur)
	}
}

func TestServiceTextInferenceAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	dto, err := svc.RecordText(ctx, "I'm really anxious about tomorrow")
	if err != nil {
		t.Fatalf("RecordText failed: %v", err)
	}
	if dto.Label != "anxious" || dto.Score != 55 || dto.Source != "local-heuristic" {
		t.Fatalf("unexpected dto %+v", dto)
	}

	dto, err = svc.RecordInference(ctx, "stressed", 8)
	if err != nil {
		t.Fatalf("RecordInference failed: %v", err)
	}
	if dto.Label != "stressed" || dto.Score != 20 || dto.Source != "remote-inference" || dto.Bucket != "negative" {
		t.Fatalf("unexpected dto %+v", dto)
	}

	cur, err := svc.Current(ctx)
	if err != nil || !cur.Found || cur.Record.Label != "stressed" {
		t.Fatalf("unexpected current %+v %v", cur, err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Days != 1 || stats.StreakLength != 1 || stats.AverageScore != 20 || len(stats.Heatmap) != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Current == nil || stats.Current.Label != "stressed" {
		t.Fatalf("expected current in stats, got %+v", stats.Current)
	}
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.RecordMood(ctx, RecordMoodOptions{Label: "happy"}); err != nil {
		t.Fatalf("RecordMood failed: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	h, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if h.Days != 0 || len(h.Records) != 0 {
		t.Fatalf("expected empty history, got %+v", h)
	}
}

func TestServiceWithoutStore(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Current(context.Background()); err == nil {
		t.Fatalf("expected error without store")
	}
}
