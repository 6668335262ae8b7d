package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/runner/get"
)

func addToday(topLevel *cobra.Command) {
	addGetView(topLevel, get.ViewToday, &cobra.Command{
		Use:     "today",
		Aliases: []string{"now"},
		Short:   "Show today's mood.",
		Example: `
mood today
mood today --json
`,
	})
}

func addHistory(topLevel *cobra.Command) {
	addGetView(topLevel, get.ViewHistory, &cobra.Command{
		Use:   "history",
		Short: "List the last seven days with a recorded mood.",
		Example: `
mood history
mood history --source
`,
	})
}

func addStats(topLevel *cobra.Command) {
	addGetView(topLevel, get.ViewStats, &cobra.Command{
		Use:   "stats",
		Short: "Show the average score, the streak and the weekly heatmap.",
		Example: `
mood stats
`,
	})
}

func addGetView(topLevel *cobra.Command, view get.View, cmd *cobra.Command) {
	showSource := false
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		_, svc, err := loadService()
		if err != nil {
			return output.HandleError(err)
		}
		defer svc.Close()

		s := get.Get{
			App:        svc,
			View:       view,
			ShowSource: showSource,
			JSON:       output.JSON,
			Out:        cmd.OutOrStdout(),
		}
		err = s.Do(context.Background())
		return output.HandleError(err)
	}
	if view == get.ViewHistory {
		cmd.Flags().BoolVar(&showSource, "source", false, "Show where each record came from.")
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
