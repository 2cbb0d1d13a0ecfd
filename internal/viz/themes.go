package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the TUI chrome. Scene colours come from the shapes.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Grid    string
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeMidnight = Theme{
		Name:    "midnight",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Grid:    "#303030",
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Grid:    "#003300",
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Grid:    "#444444",
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeMidnight,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
