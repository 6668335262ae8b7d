package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/commands/options"
	"tableflip.dev/mood/pkg/printers"
)

func addMigrate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import the mood stored by older versions.",
		Long: `Copy the mood, score and date kept under the older per-screen keys into
the state document. Nothing happens once a state document exists, and the old
keys are left untouched.`,
		Example: `
mood migrate
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, svc, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			report, err := svc.Migrate(context.Background())
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return printers.JSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			switch {
			case report.Migrated && report.Record != nil:
				_, _ = fmt.Fprintf(out, "Migrated %s (%d) for %s.\n", report.Record.Sample.Label, report.Record.Sample.Score, report.Record.Date)
			case report.Migrated:
				_, _ = fmt.Fprintln(out, "Marked legacy data as migrated, no record for today.")
			case report.CanonicalPresent:
				_, _ = fmt.Fprintln(out, "State already present, nothing to migrate.")
			case !report.LegacyFound:
				_, _ = fmt.Fprintln(out, "No legacy data found.")
			default:
				_, _ = fmt.Fprintln(out, "Nothing to migrate.")
			}
			if report.Checkins > 0 {
				_, _ = fmt.Fprintf(out, "%d legacy check-ins left in place.\n", report.Checkins)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
