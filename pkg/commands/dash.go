package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/runner/dash"
)

func addDash(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "dash",
		Aliases: []string{"ui"},
		Short:   "Open the interactive mood dashboard.",
		Example: `
mood dash
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("the dashboard needs a terminal")
			}
			_, svc, err := loadService()
			if err != nil {
				return err
			}
			defer svc.Close()
			// Log lines would tear the alternate screen.
			if !logging.Verbose {
				svc.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Warn("mood sync stopped", "err", err)
				}
			}()
			return dash.Run(svc)
		},
	}

	topLevel.AddCommand(cmd)
}
