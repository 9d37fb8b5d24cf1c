// Package trayui implements the Tray Shell of spec §2's module table:
// menu construction, the message log panel, the icon/badge color, and
// the compaction history panel, as a Bubble Tea terminal UI.
package trayui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the active color scheme name, grounded on
// internal/ui/styles.go's Theme type.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var darkColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Green, Yellow, Red, Dim    lipgloss.Color
}{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Red:     lipgloss.Color("#f7768e"),
	Dim:     lipgloss.Color("#565f89"),
}

var lightColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Green, Yellow, Red, Dim    lipgloss.Color
}{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Red:     lipgloss.Color("#8c4351"),
	Dim:     lipgloss.Color("#9699a3"),
}

var (
	colorBg, colorSurface, colorBorder lipgloss.Color
	colorText, colorTextDim            lipgloss.Color
	colorAccent, colorGreen            lipgloss.Color
	colorYellow, colorRed, colorDim    lipgloss.Color
	currentTheme                       Theme
)

// InitTheme sets the active palette. Mirrors internal/ui/styles.go's
// InitTheme/initStyles split, scaled down to the handful of styles the
// tray shell needs.
func InitTheme(theme Theme) {
	palette := darkColors
	currentTheme = ThemeDark
	if theme == ThemeLight {
		palette = lightColors
		currentTheme = ThemeLight
	}

	colorBg = palette.Bg
	colorSurface = palette.Surface
	colorBorder = palette.Border
	colorText = palette.Text
	colorTextDim = palette.TextDim
	colorAccent = palette.Accent
	colorGreen = palette.Green
	colorYellow = palette.Yellow
	colorRed = palette.Red
	colorDim = palette.Dim

	initStyles()
}

func init() {
	InitTheme(ThemeDark)
}

var (
	titleStyle       lipgloss.Style
	panelStyle       lipgloss.Style
	panelTitleStyle  lipgloss.Style
	selectedStyle    lipgloss.Style
	dimStyle         lipgloss.Style
	menuKeyStyle     lipgloss.Style
	menuDescStyle    lipgloss.Style
	menuSepStyle     lipgloss.Style
	menuStyle        lipgloss.Style
	statusLineStyle  lipgloss.Style
	interruptedStyle lipgloss.Style
	errorStyle       lipgloss.Style
	greenBadgeStyle  lipgloss.Style
)

func initStyles() {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface).Foreground(colorAccent).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	menuKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	menuDescStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	menuSepStyle = lipgloss.NewStyle().Foreground(colorDim)
	menuStyle = lipgloss.NewStyle().Background(colorSurface).Foreground(colorText).Padding(0, 1)
	statusLineStyle = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
	interruptedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
	greenBadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
}

// menuKey renders one "key • description" menu entry, grounded on
// internal/ui/styles.go's MenuKey.
func menuKey(key, description string) string {
	return fmt.Sprintf("%s %s %s",
		menuKeyStyle.Render(key),
		menuSepStyle.Render("•"),
		menuDescStyle.Render(description),
	)
}
