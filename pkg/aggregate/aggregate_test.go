package aggregate

import (
	"testing"
	"time"

	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

var today = timeutil.Date{Year: 2025, Month: time.March, Day: 3}

func historyOf(scores map[int]int) mood.History {
	var h mood.History
	at := today.Time(time.UTC)
	for offset, score := range scores {
		h, _ = h.Apply(mood.DayRecord{
			Date:   today.AddDays(offset),
			Sample: mood.NewSample("calm", score, mood.SourceManual, at),
		})
	}
	return h
}

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores map[int]int
		want   float64
	}{
		{name: "empty", scores: nil, want: EmptyAverage},
		{name: "single", scores: map[int]int{0: 85}, want: 85},
		{name: "rounds to one decimal", scores: map[int]int{0: 85, -1: 45, -2: 70}, want: 66.7},
		{name: "rounds half up", scores: map[int]int{0: 80, -1: 55, -2: 70, -3: 70}, want: 68.8},
		{name: "full week", scores: map[int]int{0: 10, -1: 20, -2: 30, -3: 40, -4: 50, -5: 60, -6: 70}, want: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageScore(historyOf(tt.scores)); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStreakLength(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "three with gap", offsets: []int{0, -1, -2, -4}, want: 3},
		{name: "no record today", offsets: []int{-1, -2, -3, -4, -5, -6, -7}, want: 0},
		{name: "only today", offsets: []int{0}, want: 1},
		{name: "empty", offsets: nil, want: 0},
		{name: "full week", offsets: []int{0, -1, -2, -3, -4, -5, -6}, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make([]timeutil.Date, 0, len(tt.offsets))
			for _, o := range tt.offsets {
				dates = append(dates, today.AddDays(o))
			}
			if got := StreakLength(dates, today); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	dates := []timeutil.Date{
		{Year: 2025, Month: time.February, Day: 27},
		{Year: 2025, Month: time.February, Day: 28},
		{Year: 2025, Month: time.March, Day: 1},
		{Year: 2025, Month: time.March, Day: 2},
		today,
	}
	if got := StreakLength(dates, today); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestHeatmapBuckets(t *testing.T) {
	at := today.Time(time.UTC)
	var h mood.History
	for i, label := range []string{"happy", "neutral", "anxious", "bewildered"} {
		h, _ = h.Apply(mood.DayRecord{
			Date:   today.AddDays(i - 3),
			Sample: mood.NewSample(label, 40+i*15, mood.SourceManual, at),
		})
	}
	cells := HeatmapBuckets(h)
	want := []Bucket{BucketPositive, BucketNeutral, BucketNegative, BucketNeutral}
	if len(cells) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(cells))
	}
	for i, c := range cells {
		if c.Bucket != want[i] {
			t.Fatalf("cell %d (%s): expected %s, got %s", i, c.Label, want[i], c.Bucket)
		}
	}
	if cells[0].Intensity != 1 || cells[3].Intensity != 4 {
		t.Fatalf("unexpected intensities %d and %d", cells[0].Intensity, cells[3].Intensity)
	}
}

func TestComputeIncludesToday(t *testing.T) {
	h := historyOf(map[int]int{0: 55, -1: 85})
	stats := Compute(h, today)
	if stats.Today == nil || stats.Today.Sample.Score != 55 {
		t.Fatalf("expected today's record, got %+v", stats.Today)
	}
	if stats.StreakLength != 2 || stats.Days != 2 || stats.AverageScore != 70 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	empty := Compute(nil, today)
	if empty.Today != nil || empty.AverageScore != EmptyAverage || len(empty.Heatmap) != 0 {
		t.Fatalf("unexpected empty stats %+v", empty)
	}
}
