package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/classify"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

// PrettyPrint renders mood data for humans.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// ShowSource adds the signal source to record listings.
	ShowSource bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " day")
	default:
		_, _ = c.Fprintln(pp.out(), " days")
	}
}

func bucketColor(b aggregate.Bucket) *color.Color {
	switch b {
	case aggregate.BucketPositive:
		return color.New(color.FgHiGreen, color.Bold)
	case aggregate.BucketNegative:
		return color.New(color.FgHiRed, color.Bold)
	default:
		return color.New(color.FgHiYellow, color.Bold)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Today prints today's record, or a hint when there is none.
func (pp *PrettyPrint) Today(today timeutil.Date, rec mood.DayRecord, ok bool) {
	pp.Title(fmt.Sprintf("Today, %s %s", today.Weekday(), today))
	if !ok {
		pp.none()
		return
	}
	label := bucketColor(aggregate.BucketFor(rec.Sample.Label)).Sprint(rec.Sample.Label)
	faint := color.New(color.Faint)
	_, _ = fmt.Fprintf(pp.out(), " %s %d %s\n\n", label, rec.Sample.Score,
		faint.Sprintf("(%s, %s)", rec.Sample.Source, rec.Sample.Timestamp.Local().Format("15:04")))
}

// History prints the rolling history as a table, oldest first.
func (pp *PrettyPrint) History(h mood.History) {
	pp.TitleWithCount("History", len(h))
	if len(h) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold.Sprint("Date"), bold.Sprint("Day"), bold.Sprint("Mood"), bold.Sprint("Score"), bold.Sprint("Heat")}
	if pp.ShowSource {
		header = append(header, bold.Sprint("Source"))
	}
	tbl.AddRow(header...)
	for _, rec := range h {
		bucket := aggregate.BucketFor(rec.Sample.Label)
		row := []interface{}{
			rec.Date.String(),
			rec.Date.Weekday().String()[0:3],
			bucketColor(bucket).Sprint(rec.Sample.Label),
			rec.Sample.Score,
			HeatCell(bucket, aggregate.Intensity(rec.Sample.Score)),
		}
		if pp.ShowSource {
			row = append(row, string(rec.Sample.Source))
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Stats prints the aggregate view followed by the weekly heatmap.
func (pp *PrettyPrint) Stats(today timeutil.Date, stats aggregate.Stats) {
	pp.Title("Stats")
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Average score"), fmt.Sprintf("%.1f", stats.AverageScore))
	streak := fmt.Sprintf("%d", stats.StreakLength)
	if stats.StreakLength == 1 {
		streak += " day"
	} else {
		streak += " days"
	}
	tbl.AddRow(bold.Sprint("Streak"), streak)
	tbl.AddRow(bold.Sprint("Days recorded"), fmt.Sprintf("%d of %d", stats.Days, mood.HistoryDays))
	if stats.Today != nil {
		tbl.AddRow(bold.Sprint("Today"), fmt.Sprintf("%s (%d)", stats.Today.Sample.Label, stats.Today.Sample.Score))
	} else {
		tbl.AddRow(bold.Sprint("Today"), color.New(color.Faint).Sprint("not recorded"))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Heatmap(today, stats.Heatmap)
}

// Rules prints the local classifier's keyword table.
func (pp *PrettyPrint) Rules(rules []classify.Rule) {
	pp.Title("Keyword rules")
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Priority"), bold.Sprint("Keywords"), bold.Sprint("Mood"), bold.Sprint("Score"))
	for i, r := range rules {
		tbl.AddRow(i+1, strings.Join(r.Keywords, ", "), bucketColor(aggregate.BucketFor(r.Label)).Sprint(r.Label), r.Score)
	}
	tbl.AddRow("-", color.New(color.Faint).Sprint("(no match)"), bucketColor(aggregate.BucketNeutral).Sprint(mood.NeutralLabel), mood.NeutralScore)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Recorded confirms a stored record.
func (pp *PrettyPrint) Recorded(rec mood.DayRecord) {
	label := bucketColor(aggregate.BucketFor(rec.Sample.Label)).Sprint(rec.Sample.Label)
	faint := color.New(color.Faint)
	_, _ = fmt.Fprintf(pp.out(), "Recorded %s %d for %s", label, rec.Sample.Score, rec.Date)
	if pp.ShowSource {
		_, _ = faint.Fprintf(pp.out(), " (%s)", rec.Sample.Source)
	}
	pp.NewLine()
}
