package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/runner/log"
)

func addInfer(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "infer <emotion> <intensity>",
		Short: "Record an emotion reported by a remote classifier.",
		Long: `Record an emotion with an intensity from 0 to 10, where higher is heavier.
The intensity maps onto the 0-100 score as 100 - intensity*10.`,
		Example: `
mood infer stressed 7
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			intensity, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return output.HandleError(fmt.Errorf("invalid intensity %q", args[1]))
			}
			_, svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			s := log.Infer{
				App:       svc,
				Label:     args[0],
				Intensity: intensity,
				JSON:      output.JSON,
				Out:       cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
