package trayui

import dark "github.com/thiagokokada/dark-mode-go"

// BadgeState summarizes what the tray icon's badge should communicate,
// per spec §2's "icon/badge" Tray Shell responsibility.
type BadgeState struct {
	SessionCount   int
	AnyInterrupted bool
}

// ResolveIconVariant picks "dark" or "light" for the tray icon asset, the
// same way internal/session/userconfig.go's ResolveTheme resolves a
// "system" theme preference: ask the OS, default to dark on failure.
// Grounded on that function almost directly.
func ResolveIconVariant() Theme {
	isDark, err := dark.IsDarkMode()
	if err != nil {
		return ThemeDark
	}
	if isDark {
		return ThemeDark
	}
	return ThemeLight
}

// Render returns count rendered in the session-count badge style for
// the shell's title bar: red while any session is interrupted
// (draws the eye to the thing that needs action), green when sessions
// are live and idle, dim when nothing is running.
func (s BadgeState) Render(count string) string {
	switch {
	case s.AnyInterrupted:
		return interruptedStyle.Render(count)
	case s.SessionCount > 0:
		return greenBadgeStyle.Render(count)
	default:
		return dimStyle.Render(count)
	}
}
