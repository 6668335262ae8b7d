// Package get prints stored mood data.
package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/printers"
)

// View selects what Get prints.
type View string

const (
	ViewToday   View = "today"
	ViewHistory View = "history"
	ViewStats   View = "stats"
)

type Get struct {
	App        *app.Service
	View       View
	ShowSource bool
	JSON       bool
	Out        io.Writer
}

type todayJSON struct {
	Today  string `json:"today"`
	Found  bool   `json:"found"`
	Record any    `json:"record,omitempty"`
}

func (n *Get) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get, no store")
	}
	// Pick up writes made by other processes since the service loaded.
	if _, err := n.App.Reconcile(ctx); err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out, ShowSource: n.ShowSource}
	today := n.App.Today()

	switch n.View {
	case ViewToday, "":
		rec, ok := n.App.Current()
		if n.JSON {
			out := todayJSON{Today: today.String(), Found: ok}
			if ok {
				out.Record = rec
			}
			return printers.JSON(n.Out, out)
		}
		pp.Today(today, rec, ok)
	case ViewHistory:
		h := n.App.History()
		if n.JSON {
			return printers.JSON(n.Out, h)
		}
		pp.History(h)
	case ViewStats:
		stats := n.App.Stats()
		if n.JSON {
			return printers.JSON(n.Out, stats)
		}
		pp.Stats(today, stats)
	default:
		return errors.New("unknown view " + string(n.View))
	}
	return nil
}
