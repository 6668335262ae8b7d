package options

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LoggingOptions
type LoggingOptions struct {
	Verbose bool
	Level   string
}

func AddLoggingArgs(cmd *cobra.Command, o *LoggingOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log debug output to stderr.")
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Log level: debug, info, warn or error. Defaults to the log.level config value, then warn.")
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", v)
	}
}

// Setup installs the default logger. fallback is used when no flag is set.
func (o *LoggingOptions) Setup(fallback string) error {
	v := o.Level
	if v == "" {
		v = fallback
	}
	if o.Verbose {
		v = "debug"
	}
	level, err := ParseLevel(v)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
