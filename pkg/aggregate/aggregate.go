// Package aggregate derives display statistics from a mood history. Nothing
// here is persisted; callers recompute on demand from the latest history.
package aggregate

import (
	"math"

	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

// EmptyAverage is the average reported for an empty history.
const EmptyAverage = 0.0

// Bucket is a coarse colour class for a heatmap cell.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNeutral  Bucket = "neutral"
	BucketNegative Bucket = "negative"
)

var labelBuckets = map[string]Bucket{
	"happy":      BucketPositive,
	"calm":       BucketPositive,
	"excited":    BucketPositive,
	"grateful":   BucketPositive,
	"content":    BucketPositive,
	"joyful":     BucketPositive,
	"relaxed":    BucketPositive,
	"hopeful":    BucketPositive,
	"proud":      BucketPositive,
	"love":       BucketPositive,
	"neutral":    BucketNeutral,
	"okay":       BucketNeutral,
	"meh":        BucketNeutral,
	"sad":        BucketNegative,
	"angry":      BucketNegative,
	"anxious":    BucketNegative,
	"stressed":   BucketNegative,
	"upset":      BucketNegative,
	"worried":    BucketNegative,
	"fear":       BucketNegative,
	"frustrated": BucketNegative,
	"lonely":     BucketNegative,
	"tired":      BucketNegative,
}

// BucketFor returns the bucket of a label. Unknown labels are neutral.
func BucketFor(label string) Bucket {
	if b, ok := labelBuckets[mood.NormalizeLabel(label)]; ok {
		return b
	}
	return BucketNeutral
}

// Intensity grades a score from 1 (lowest) to 4.
func Intensity(score int) int {
	switch {
	case score >= 85:
		return 4
	case score >= 70:
		return 3
	case score >= 50:
		return 2
	default:
		return 1
	}
}

// Cell is one heatmap square.
type Cell struct {
	Date      timeutil.Date `json:"date"`
	Label     string        `json:"label"`
	Score     int           `json:"score"`
	Bucket    Bucket        `json:"bucket"`
	Intensity int           `json:"intensity"`
}

// Stats is the derived view of a history as of a given day.
type Stats struct {
	Today        *mood.DayRecord `json:"today"`
	AverageScore float64         `json:"averageScore"`
	StreakLength int             `json:"streakLength"`
	Days         int             `json:"days"`
	Heatmap      []Cell          `json:"heatmap"`
}

// AverageScore is the mean score of the history rounded to one decimal, or
// EmptyAverage when the history is empty.
func AverageScore(h mood.History) float64 {
	if len(h) == 0 {
		return EmptyAverage
	}
	total := 0
	for _, r := range h {
		total += r.Sample.Score
	}
	mean := float64(total) / float64(len(h))
	return math.Round(mean*10) / 10
}

// StreakLength counts consecutive calendar days with a record, ending today.
// No record for today means no streak.
func StreakLength(dates []timeutil.Date, today timeutil.Date) int {
	present := make(map[timeutil.Date]struct{}, len(dates))
	for _, d := range dates {
		present[d] = struct{}{}
	}
	streak := 0
	for expected := today; ; expected = expected.AddDays(-1) {
		if _, ok := present[expected]; !ok {
			return streak
		}
		streak++
	}
}

// HeatmapBuckets maps every record to a heatmap cell, in history order.
func HeatmapBuckets(h mood.History) []Cell {
	cells := make([]Cell, 0, len(h))
	for _, r := range h {
		cells = append(cells, Cell{
			Date:      r.Date,
			Label:     r.Sample.Label,
			Score:     r.Sample.Score,
			Bucket:    BucketFor(r.Sample.Label),
			Intensity: Intensity(r.Sample.Score),
		})
	}
	return cells
}

// Compute derives Stats for h as seen on today.
func Compute(h mood.History, today timeutil.Date) Stats {
	stats := Stats{
		AverageScore: AverageScore(h),
		StreakLength: StreakLength(h.Dates(), today),
		Days:         len(h),
		Heatmap:      HeatmapBuckets(h),
	}
	if rec, ok := h.Find(today); ok {
		stats.Today = &rec
	}
	return stats
}
