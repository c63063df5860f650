// Package theme holds the editor's colors and styles.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Accent      = lipgloss.Color("#3B82F6")
	AccentSoft  = lipgloss.Color("#60A5FA")
	AccentAlt   = lipgloss.Color("#22C55E")
	AccentFocus = lipgloss.Color("#F9F871")

	Warning = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	Error   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}

	TextPrimary   = lipgloss.Color("#F8FAFC")
	TextSecondary = lipgloss.Color("#CBD5E1")
	TextMuted     = lipgloss.Color("#94A3B8")

	Border         = lipgloss.Color("#3A3A3A")
	BorderSelected = Accent
	BorderPreview  = AccentFocus
	SectionBar     = lipgloss.Color("#242424")
)

var Title = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)

// EditBadge marks the header while edit mode is on.
var EditBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A1A1A")).Background(AccentAlt).Padding(0, 1)

var StatusMessage = lipgloss.NewStyle().Foreground(TextSecondary)

var StatusError = lipgloss.NewStyle().Foreground(Error)

var StatusWarning = lipgloss.NewStyle().Foreground(Warning)

// Cell styles used by the grid canvas.
var (
	PanelBorder   = lipgloss.NewStyle().Foreground(Border)
	PanelSelected = lipgloss.NewStyle().Foreground(BorderSelected).Bold(true)
	PanelPreview  = lipgloss.NewStyle().Foreground(BorderPreview)
	PanelTitle    = lipgloss.NewStyle().Foreground(TextSecondary)
	PanelType     = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	SectionHeader = lipgloss.NewStyle().Foreground(TextPrimary).Background(SectionBar).Bold(true)
	DragRectangle = lipgloss.NewStyle().Foreground(AccentSoft)
)
