package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/xrgrab/internal/interact"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Text     lipgloss.Color
	Free     lipgloss.Color
	Targeted lipgloss.Color
	Pulled   lipgloss.Color
	Held     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#00ffff"),
		Muted:    lipgloss.Color("#666688"),
		Text:     lipgloss.Color("#ffffff"),
		Free:     lipgloss.Color("#888899"),
		Targeted: lipgloss.Color("#ff00ff"),
		Pulled:   lipgloss.Color("#ffaa00"),
		Held:     lipgloss.Color("#00ff88"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Text:     lipgloss.Color("#00ff00"),
		Free:     lipgloss.Color("#00aa00"),
		Targeted: lipgloss.Color("#ffff00"),
		Pulled:   lipgloss.Color("#88ff88"),
		Held:     lipgloss.Color("#ffffff"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Text:     lipgloss.Color("#ffffff"),
		Free:     lipgloss.Color("#cccccc"),
		Targeted: lipgloss.Color("#0088ff"),
		Pulled:   lipgloss.Color("#ffaa00"),
		Held:     lipgloss.Color("#00ff00"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func (t Theme) stateColor(s interact.State) lipgloss.Color {
	switch s {
	case interact.Targeted:
		return t.Targeted
	case interact.Pulled:
		return t.Pulled
	case interact.Held:
		return t.Held
	default:
		return t.Free
	}
}

// Badge renders a state label in its theme color. Targeted is drawn reversed
// so it stands out from the rest of the table.
func (t Theme) Badge(s interact.State) string {
	style := lipgloss.NewStyle().Foreground(t.stateColor(s)).Bold(s != interact.Free)
	if s == interact.Targeted {
		style = style.Reverse(true)
	}
	return style.Render(" " + s.String() + " ")
}
