package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/runner/key"
)

func addRules(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"key"},
		Short:   "Show the keyword rules used to read free text.",
		Example: `
mood rules
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			k := key.Key{JSON: output.JSON, Out: cmd.OutOrStdout()}
			err := k.Do(context.Background())
			return output.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
