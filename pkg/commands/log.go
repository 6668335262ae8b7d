package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/classify"
	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/runner/log"
)

func addLog(topLevel *cobra.Command) {
	mo := &options.MoodOptions{}
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     "log <mood>",
		Aliases: []string{"l"},
		Short:   "Record how you feel today.",
		Example: `
mood log happy
mood log calm --score 75
mood log sad --on yesterday
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: labelCompletions(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			_, svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			day, err := on.GetOn(svc.Today())
			if err != nil {
				return output.HandleError(err)
			}
			s := log.Log{
				App:   svc,
				Label: args[0],
				Score: mo.Score,
				On:    day,
				JSON:  output.JSON,
				Out:   cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}
	options.AddMoodArgs(cmd, mo)
	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

// labelCompletions lists the labels the keyword rules produce.
func labelCompletions() []string {
	seen := map[string]bool{}
	var labels []string
	for _, r := range classify.Rules() {
		l := strings.ToLower(r.Label)
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}
