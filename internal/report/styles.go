package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Cyclomatic complexity bands used to color function rows.
const (
	CyclomaticModerate = 11
	CyclomaticHigh     = 21
)

// Maintainability bands on the rescaled 0..100 index.
const (
	MaintainabilityLow      = 10
	MaintainabilityModerate = 20
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== Modules ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Good, Warn and Bad color metric values by band.
	Good lipgloss.Style
	Warn lipgloss.Style
	Bad  lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// SummaryValue styles summary line values.
	SummaryValue lipgloss.Style

	// Pass styles PASS indicators.
	Pass lipgloss.Style

	// Fail styles FAIL indicators.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Good: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		Warn: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Bad:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(24),
		SummaryValue: lipgloss.NewStyle(),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// CyclomaticStyle returns the style for a cyclomatic complexity value.
func (s Styles) CyclomaticStyle(c float64) lipgloss.Style {
	switch {
	case c >= CyclomaticHigh:
		return s.Bad
	case c >= CyclomaticModerate:
		return s.Warn
	default:
		return s.Good
	}
}

// MaintainabilityStyle returns the style for a maintainability index.
func (s Styles) MaintainabilityStyle(mi float64) lipgloss.Style {
	switch {
	case mi < MaintainabilityLow:
		return s.Bad
	case mi < MaintainabilityModerate:
		return s.Warn
	default:
		return s.Good
	}
}

// StatusStyle returns Pass or Fail.
func (s Styles) StatusStyle(ok bool) lipgloss.Style {
	if ok {
		return s.Pass
	}
	return s.Fail
}
