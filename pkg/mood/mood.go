// Package mood defines the mood samples, day records and bounded history that
// every surface reads and writes.
package mood

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/mood/pkg/timeutil"
)

const (
	// MinScore and MaxScore bound the valence scale. Higher is more positive.
	MinScore = 0
	MaxScore = 100

	// NeutralLabel is used when nothing more specific is known.
	NeutralLabel = "neutral"
	// NeutralScore is the mid-scale score paired with NeutralLabel.
	NeutralScore = 70

	// HistoryDays is the number of distinct dates kept in a History.
	HistoryDays = 7
)

// Source tells where a sample came from. It only matters for precedence.
type Source string

const (
	SourceManual          Source = "manual"
	SourceLocalHeuristic  Source = "local-heuristic"
	SourceRemoteInference Source = "remote-inference"
)

// AllSources returns the known sources.
func AllSources() []Source {
	return []Source{SourceManual, SourceLocalHeuristic, SourceRemoteInference}
}

// ParseSource converts a string into a Source.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range AllSources() {
		if candidate == s {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("mood: unknown source %q", raw)
}

// Sample is one classified mood observation.
type Sample struct {
	Label     string    `json:"label"`
	Score     int       `json:"score"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSample builds a normalised sample.
func NewSample(label string, score int, source Source, at time.Time) Sample {
	return Sample{
		Label:     NormalizeLabel(label),
		Score:     ClampScore(score),
		Source:    source,
		Timestamp: at,
	}
}

// Equivalent reports whether two samples carry the same mood from the same
// source, ignoring when they were produced.
func (s Sample) Equivalent(o Sample) bool {
	return s.Label == o.Label && s.Score == o.Score && s.Source == o.Source
}

// DayRecord is the canonical mood for one calendar date.
type DayRecord struct {
	Date   timeutil.Date `json:"date"`
	Sample Sample        `json:"sample"`
}

func (r DayRecord) String() string {
	return fmt.Sprintf("%s %s (%d, %s)", r.Date, r.Sample.Label, r.Sample.Score, r.Sample.Source)
}

// NormalizeLabel lower-cases and trims a label. An empty label becomes
// NeutralLabel.
func NormalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return NeutralLabel
	}
	return l
}

// ClampScore limits a score to the valence scale.
func ClampScore(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

// ParseScore coerces free-form numeric input from a manual control. Input
// that is not a finite number becomes 0; anything else is rounded and clamped.
func ParseScore(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return int(math.Round(v))
}

// IntensityScore maps a remote intensity reading onto the valence scale:
// 100 - intensity*10, clamped.
func IntensityScore(intensity float64) int {
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return NeutralScore
	}
	v := math.Round(100 - intensity*10)
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return int(v)
}
