package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/runner/say"
)

func addSay(topLevel *cobra.Command) {
	co := &options.ChatOptions{}

	cmd := &cobra.Command{
		Use:   "say <text...>",
		Short: "Tell mood how you feel in your own words.",
		Long: `Classify free text and record the result for today. When remote inference
is configured, the companion's reading replaces the local one once it answers.`,
		Example: `
mood say "I'm really anxious about tomorrow"
mood say --local feeling great today
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			_, svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			s := say.Say{
				App:   svc,
				Text:  strings.Join(args, " "),
				Local: co.Local,
				JSON:  output.JSON,
				Out:   cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}
	options.AddChatArgs(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
