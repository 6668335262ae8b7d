package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

var (
	heatBase    = mustHex("#3a3a40")
	bucketHeats = map[aggregate.Bucket]colorful.Color{
		aggregate.BucketPositive: mustHex("#2ea043"),
		aggregate.BucketNeutral:  mustHex("#d29922"),
		aggregate.BucketNegative: mustHex("#da3633"),
	}
	bucketSymbols = map[aggregate.Bucket]string{
		aggregate.BucketPositive: "+",
		aggregate.BucketNeutral:  "~",
		aggregate.BucketNegative: "-",
	}
)

const cellWidth = len("We ") // a weekday column

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HeatColor is the colour of a heatmap cell: the bucket's hue, blended from a
// dim base by intensity (1 to 4).
func HeatColor(bucket aggregate.Bucket, intensity int) colorful.Color {
	target, ok := bucketHeats[bucket]
	if !ok {
		target = bucketHeats[aggregate.BucketNeutral]
	}
	if intensity < 1 {
		intensity = 1
	}
	if intensity > 4 {
		intensity = 4
	}
	return heatBase.BlendLab(target, float64(intensity)/4).Clamped()
}

// HeatHex is HeatColor as a #rrggbb string.
func HeatHex(bucket aggregate.Bucket, intensity int) string {
	return HeatColor(bucket, intensity).Hex()
}

// HeatCell renders one two-column heatmap square. Without colour support the
// bucket symbol is repeated by intensity.
func HeatCell(bucket aggregate.Bucket, intensity int) string {
	sym, ok := bucketSymbols[bucket]
	if !ok {
		sym = bucketSymbols[aggregate.BucketNeutral]
	}
	if color.NoColor {
		if intensity >= 3 {
			return sym + sym
		}
		return sym + " "
	}
	return termenv.TrueColor.String("██").
		Foreground(termenv.TrueColor.Color(HeatHex(bucket, intensity))).
		String()
}

// Heatmap prints the last HistoryDays calendar days ending today, one cell per
// day. Days without a record are dotted.
func (pp *PrettyPrint) Heatmap(today timeutil.Date, cells []aggregate.Cell) {
	byDate := make(map[timeutil.Date]aggregate.Cell, len(cells))
	for _, c := range cells {
		byDate[c.Date] = c
	}

	tf := color.New(color.FgWhite, color.Italic)
	title := "Last 7 days"
	width := cellWidth * mood.HistoryDays
	mid := (width - len(title)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), title)

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	first := today.AddDays(-(mood.HistoryDays - 1))
	for d := first; !d.After(today); d = d.AddDays(1) {
		printer := l1
		if d == today {
			printer = l2
		}
		_, _ = printer.Fprintf(pp.out(), "%-*s", cellWidth, d.Weekday().String()[0:2])
	}
	_, _ = fmt.Fprint(pp.out(), "\n")

	for d := first; !d.After(today); d = d.AddDays(1) {
		c, ok := byDate[d]
		if !ok {
			_, _ = l1.Fprint(pp.out(), "·· ")
			continue
		}
		_, _ = fmt.Fprint(pp.out(), HeatCell(c.Bucket, c.Intensity)+" ")
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")

	legend := color.New(color.Faint)
	for _, b := range []aggregate.Bucket{aggregate.BucketPositive, aggregate.BucketNeutral, aggregate.BucketNegative} {
		_, _ = fmt.Fprintf(pp.out(), "%s %s  ", HeatCell(b, 4), legend.Sprint(string(b)))
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}
