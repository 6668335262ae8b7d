// Package log records mood signals from the command line.
package log

import (
	"context"
	"errors"
	"io"
	"strings"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/printers"
	"tableflip.dev/mood/pkg/timeutil"
)

// Log records a manual mood choice.
type Log struct {
	App   *app.Service
	Label string
	// Score is raw user text; empty takes the label default.
	Score string
	// On is the day to record; zero means today.
	On   timeutil.Date
	JSON bool
	Out  io.Writer
}

func (n *Log) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not log, no store")
	}
	label := strings.TrimSpace(n.Label)
	if label == "" {
		return errors.New("a mood label is required")
	}

	var score *int
	if raw := strings.TrimSpace(n.Score); raw != "" {
		v := mood.ParseScore(raw)
		score = &v
	}
	rec, err := n.App.RecordManualMoodOn(ctx, n.On, label, score)
	if err != nil {
		return err
	}
	return show(n.Out, n.JSON, rec)
}

// Infer records a remote classification given as a label and a 0-10
// intensity.
type Infer struct {
	App       *app.Service
	Label     string
	Intensity float64
	JSON      bool
	Out       io.Writer
}

func (n *Infer) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not log, no store")
	}
	if strings.TrimSpace(n.Label) == "" {
		return errors.New("an emotion label is required")
	}
	rec, err := n.App.RecordRemoteInference(ctx, n.Label, n.Intensity)
	if err != nil {
		return err
	}
	return show(n.Out, n.JSON, rec)
}

func show(out io.Writer, asJSON bool, rec mood.DayRecord) error {
	if asJSON {
		return printers.JSON(out, rec)
	}
	pp := printers.PrettyPrint{Out: out, ShowSource: true}
	pp.Recorded(rec)
	return nil
}
