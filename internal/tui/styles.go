package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the screen uses.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	countStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	hintStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	nameStyle     = lipgloss.NewStyle().Foreground(colorText)
	removeStyle   = lipgloss.NewStyle().Foreground(colorPeach)
	inputStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	dimStyle      = lipgloss.NewStyle().Foreground(colorSurface1)
)

const removeGlyph = "✖"
