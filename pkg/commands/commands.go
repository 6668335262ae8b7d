package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/mood/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	logging = &options.LoggingOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: base.Wrap80("Track how you feel, one day at a time, from the command line."),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLoggingArgs(cmd, logging)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addLog(topLevel)
	addSay(topLevel)
	addInfer(topLevel)
	addToday(topLevel)
	addHistory(topLevel)
	addStats(topLevel)
	addRules(topLevel)
	addClear(topLevel)
	addMigrate(topLevel)
	addDash(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
