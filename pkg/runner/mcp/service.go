// Package mcp provides the Model Context Protocol server integration for mood.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

// Service adapts the mood store to transport-friendly DTOs shared by the MCP
// tools and resources.
type Service struct {
	App *app.Service
}

// RecordMoodOptions captures the parameters of a manual mood entry.
type RecordMoodOptions struct {
	Label string
	// Score is raw text; empty takes the label default.
	Score string
	// Date is YYYY-MM-DD; empty means today.
	Date string
}

// RecordDTO is a transport-friendly projection of a day record.
type RecordDTO struct {
	Date         string `json:"date"`
	Label        string `json:"label"`
	Score        int    `json:"score"`
	Source       string `json:"source"`
	RecordedISO  string `json:"recorded"`
	RecordedUnix int64  `json:"recordedUnix"`
	Bucket       string `json:"bucket"`
	Intensity    int    `json:"intensity"`
}

// CurrentDTO describes today's mood.
type CurrentDTO struct {
	Today  string     `json:"today"`
	Record *RecordDTO `json:"record,omitempty"`
	Found  bool       `json:"found"`
}

// HistoryDTO lists the rolling history oldest first.
type HistoryDTO struct {
	Days    int         `json:"days"`
	Records []RecordDTO `json:"records"`
}

// StatsDTO is the aggregate view.
type StatsDTO struct {
	Today        string      `json:"today"`
	Current      *RecordDTO  `json:"current,omitempty"`
	AverageScore float64     `json:"averageScore"`
	StreakLength int         `json:"streakLength"`
	Days         int         `json:"days"`
	Heatmap      []RecordDTO `json:"heatmap"`
}

// NewService builds a service wrapper around the mood store.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) check() error {
	if s.App == nil {
		return errors.New("mood store is not configured")
	}
	return nil
}

// RecordMood stores a manual mood.
func (s *Service) RecordMood(ctx context.Context, opts RecordMoodOptions) (*RecordDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(opts.Label)
	if label == "" {
		return nil, errors.New("label is required")
	}

	var (
		rec mood.DayRecord
		err error
	)
	if strings.TrimSpace(opts.Date) == "" {
		rec, err = s.App.RecordManualMoodInput(ctx, label, strings.TrimSpace(opts.Score))
	} else {
		day, perr := timeutil.ParseDate(strings.TrimSpace(opts.Date))
		if perr != nil {
			return nil, fmt.Errorf("invalid date: %w", perr)
		}
		var score *int
		if raw := strings.TrimSpace(opts.Score); raw != "" {
			v := mood.ParseScore(raw)
			score = &v
		}
		rec, err = s.App.RecordManualMoodOn(ctx, day, label, score)
	}
	if err != nil {
		return nil, err
	}
	dto := toDTO(rec)
	return &dto, nil
}

// RecordText classifies free text locally and stores the result.
func (s *Service) RecordText(ctx context.Context, text string) (*RecordDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	rec, err := s.App.RecordText(ctx, text)
	if err != nil {
		return nil, err
	}
	dto := toDTO(rec)
	return &dto, nil
}

// RecordInference stores a remote classification.
func (s *Service) RecordInference(ctx context.Context, label string, intensity float64) (*RecordDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(label) == "" {
		return nil, errors.New("label is required")
	}
	rec, err := s.App.RecordRemoteInference(ctx, label, intensity)
	if err != nil {
		return nil, err
	}
	dto := toDTO(rec)
	return &dto, nil
}

// Current returns today's record, if any.
func (s *Service) Current(context.Context) (*CurrentDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	out := &CurrentDTO{Today: s.App.Today().String()}
	if rec, ok := s.App.Current(); ok {
		dto := toDTO(rec)
		out.Record = &dto
		out.Found = true
	}
	return out, nil
}

// History returns the rolling history.
func (s *Service) History(context.Context) (*HistoryDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	h := s.App.History()
	return &HistoryDTO{Days: len(h), Records: toDTOs(h)}, nil
}

// Stats returns the aggregate view as of today.
func (s *Service) Stats(context.Context) (*StatsDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	st := s.App.Stats()
	out := &StatsDTO{
		Today:        s.App.Today().String(),
		AverageScore: st.AverageScore,
		StreakLength: st.StreakLength,
		Days:         st.Days,
		Heatmap:      make([]RecordDTO, 0, len(st.Heatmap)),
	}
	if st.Today != nil {
		dto := toDTO(*st.Today)
		out.Current = &dto
	}
	h := s.App.History()
	for _, cell := range st.Heatmap {
		rec, ok := h.Find(cell.Date)
		if !ok {
			continue
		}
		out.Heatmap = append(out.Heatmap, toDTO(rec))
	}
	return out, nil
}

// Clear removes every record.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.App.Clear(ctx)
}

func toDTO(rec mood.DayRecord) RecordDTO {
	return RecordDTO{
		Date:         rec.Date.String(),
		Label:        rec.Sample.Label,
		Score:        rec.Sample.Score,
		Source:       string(rec.Sample.Source),
		RecordedISO:  rec.Sample.Timestamp.Format(time.RFC3339),
		RecordedUnix: rec.Sample.Timestamp.Unix(),
		Bucket:       string(aggregate.BucketFor(rec.Sample.Label)),
		Intensity:    aggregate.Intensity(rec.Sample.Score),
	}
}

func toDTOs(h mood.History) []RecordDTO {
	out := make([]RecordDTO, 0, len(h))
	for _, rec := range h {
		out = append(out, toDTO(rec))
	}
	return out
}
