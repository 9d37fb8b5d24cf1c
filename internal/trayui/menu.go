package trayui

import "strings"

// menu renders the bottom key-hint bar, grounded on internal/ui/menu.go.
type menu struct {
	width int
}

func newMenu() *menu { return &menu{} }

func (m *menu) setWidth(w int) { m.width = w }

func (m *menu) View(focus focusArea) string {
	items := []string{
		menuKey("↑↓", "Navigate"),
		menuKey("Tab", "Switch panel"),
		menuKey("/", "Filter"),
	}
	if focus == focusSessions {
		items = append(items, menuKey("i", "Interrupt"), menuKey("r", "Resume"))
	}
	items = append(items, menuKey("q", "Quit"))

	content := strings.Join(items, "  ")
	return menuStyle.Width(m.width).Render(content)
}
