package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/store"
)

type Info struct {
	Config *store.FileConfig
	App    *app.Service
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("MOOD_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "MOOD_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "MOOD_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	if n.Config.Source != "" {
		_, _ = fmt.Fprintln(out, "Config.file:", n.Config.Source)
	}
	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Location:", n.Config.Location())
	_, _ = fmt.Fprintln(out, "Sync poll:", n.Config.Poll)
	if n.Config.InferenceEnabled {
		_, _ = fmt.Fprintf(out, "Inference: enabled (%s, timeout %s)\n", n.Config.InferenceModel, n.Config.InferenceTimeout)
	} else {
		_, _ = fmt.Fprintln(out, "Inference: disabled")
	}

	if n.App == nil || n.App.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	st, err := n.App.Persistence.Load(ctx)
	switch {
	case err == nil:
		_, _ = fmt.Fprintf(out, "State: schema %s, %d days, last written by %s at %s\n",
			st.Schema, len(st.History), st.Writer, st.Updated.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintln(out, "Legacy migrated:", st.LegacyMigrated)
	default:
		_, _ = fmt.Fprintln(out, "State:", err)
	}

	legacy, err := n.App.Persistence.Legacy(ctx)
	if err != nil {
		return err
	}
	if legacy.Found {
		_, _ = fmt.Fprintf(out, "Legacy keys: mood %q, score %q, date %q, %d checkins\n",
			legacy.Label, legacy.RawScore, legacy.Date, legacy.Checkins)
	} else {
		_, _ = fmt.Fprintln(out, "Legacy keys: none")
	}

	_, _ = fmt.Fprintln(out, "Writer:", n.App.Writer())
	return nil
}
