package hud

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1).
			MarginRight(1)
	labelStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	valueStyle   = lipgloss.NewStyle().Foreground(colorText)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	blockedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	groundStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	airStyle     = lipgloss.NewStyle().Foreground(colorPeach)
	eventStyle   = lipgloss.NewStyle().Foreground(colorTeal)
	helpStyle    = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)
	modeStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)
