package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
)

func addClear(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every recorded mood.",
		Example: `
mood clear --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !co.Yes {
				return output.HandleError(errors.New("refusing to clear without --yes"))
			}
			_, svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			if err := svc.Clear(context.Background()); err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), `{"cleared":true}`)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
	options.AddConfirmArgs(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
