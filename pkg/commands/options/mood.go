package options

import (
	"github.com/spf13/cobra"
)

// MoodOptions
type MoodOptions struct {
	Score string
}

func AddMoodArgs(cmd *cobra.Command, o *MoodOptions) {
	cmd.Flags().StringVarP(&o.Score, "score", "s", "",
		"Score from 0 to 100. Defaults to the usual score of the mood.")
}

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Confirm without asking.")
}

// ChatOptions
type ChatOptions struct {
	Local bool
}

func AddChatArgs(cmd *cobra.Command, o *ChatOptions) {
	cmd.Flags().BoolVar(&o.Local, "local", false,
		"Only use the local keyword rules, even when remote inference is configured.")
}
