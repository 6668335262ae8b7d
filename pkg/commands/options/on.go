package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/mood/pkg/timeutil"
)

const layoutISOShort = "1/2"

// OnOptions selects the day a mood is recorded for.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on="2025-04-01", --on="4/1", --on="yesterday" or --on="2d" (days ago).`)
}

// GetOn resolves the flag against today. An empty flag returns the zero
// date, meaning today.
func (o *OnOptions) GetOn(today timeutil.Date) (timeutil.Date, error) {
	v := strings.ToLower(strings.TrimSpace(o.OnString))
	switch v {
	case "", "today":
		return timeutil.Date{}, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if d, err := timeutil.ParseDate(v); err == nil {
		if d.After(today) {
			return timeutil.Date{}, fmt.Errorf("invalid --on value %q: %s is in the future", o.OnString, d)
		}
		return d, nil
	}
	if t, err := time.Parse(layoutISOShort, v); err == nil {
		// Let the year be the same; a day after today means last year.
		d := timeutil.Date{Year: today.Year, Month: t.Month(), Day: t.Day()}
		if d.After(today) {
			d.Year--
		}
		// 2/29 outside a leap year.
		if d.AddDays(0) != d {
			return timeutil.Date{}, fmt.Errorf("invalid --on value %q: no such day in %d", o.OnString, d.Year)
		}
		return d, nil
	}
	if days, err := timeutil.ParseDaysAgo(v); err == nil {
		return today.AddDays(-days), nil
	}
	return timeutil.Date{}, fmt.Errorf("invalid --on value %q", o.OnString)
}
