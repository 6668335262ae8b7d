package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where moods are stored.",
		Example: `
mood info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			defer svc.Close()

			s := info.Info{
				Config: cfg,
				App:    svc,
				Out:    cmd.OutOrStdout(),
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
