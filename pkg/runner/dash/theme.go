package dash

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/mood/pkg/aggregate"
	"tableflip.dev/mood/pkg/printers"
)

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Faint   lipgloss.Style
	Card    lipgloss.Style
	Reply   lipgloss.Style
	Crisis  lipgloss.Style
	Status  lipgloss.Style
	Help    lipgloss.Style
	Weekday lipgloss.Style
	Today   lipgloss.Style
}

// DefaultTheme returns the built-in dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Label:   lipgloss.NewStyle().Bold(true),
		Faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Reply:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Italic(true),
		Crisis:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Weekday: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(3),
		Today:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Width(3),
	}
}

// BucketStyle colours a mood label by its heatmap bucket.
func (t Theme) BucketStyle(b aggregate.Bucket) lipgloss.Style {
	return t.Label.Foreground(lipgloss.Color(printers.HeatHex(b, 4)))
}

// Cell renders one heatmap square.
func (t Theme) Cell(b aggregate.Bucket, intensity int) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(printers.HeatHex(b, intensity))).Render("  ")
}

// EmptyCell renders a day without a record.
func (t Theme) EmptyCell() string {
	return t.Faint.Render("··")
}
