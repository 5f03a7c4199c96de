package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// Color constants using ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and the middle tier (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess is used for the high tier (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for warnings and the low tier (orange/yellow).
	ColorWarning = lipgloss.Color("214")

	// ColorDanger is used for errors (red).
	ColorDanger = lipgloss.Color("196")

	// ColorMuted is used for secondary text and the unknown tier (gray).
	ColorMuted = lipgloss.Color("245")
)

// Box styles for containing grouped content.
var (
	// HeaderBox is the style for the header section containing run info.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox is the style for the footer section containing the tier summary.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

// Text styles for various content types.
var (
	// LabelStyle is used for field labels (e.g., "Source:").
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	// WarningStyle is used for warning text.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// MutedStyle is used for less important text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// TableHeaderStyle is used for table column headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMuted)
)

// tierStyles maps each tier to its badge style.
var tierStyles = map[tier.Tier]lipgloss.Style{
	tier.Unknown: lipgloss.NewStyle().Foreground(ColorMuted),
	tier.Low:     lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
	tier.Middle:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	tier.High:    lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
}

// TierStyle returns the style used to render t.
func TierStyle(t tier.Tier) lipgloss.Style {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return tierStyles[tier.Unknown]
}
