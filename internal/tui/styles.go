package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	lockedTabStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle).
			Strikethrough(true).
			Padding(0, 1)

	cursorStyle   = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	rowStyle      = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	categoryStyle = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)

	statusStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
	hintStyle      = lipgloss.NewStyle().Foreground(colorYellow)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 1)
)

func jobStatusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "error":
		return lipgloss.NewStyle().Foreground(colorRed)
	case "running":
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return mutedStyle
	}
}
