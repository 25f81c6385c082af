package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps report elements to colors.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	Header   lipgloss.Color
	Border   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Faster   lipgloss.Color
	Slower   lipgloss.Color
	Mismatch lipgloss.Color
	Accent   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Title:    lipgloss.Color("#ff00ff"),
		Header:   lipgloss.Color("#00ffff"),
		Border:   lipgloss.Color("#444466"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Faster:   lipgloss.Color("#00ff00"),
		Slower:   lipgloss.Color("#ff8800"),
		Mismatch: lipgloss.Color("#ff0000"),
		Accent:   lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Title:    lipgloss.Color("#00ff00"),
		Header:   lipgloss.Color("#00cc00"),
		Border:   lipgloss.Color("#005500"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Faster:   lipgloss.Color("#88ff88"),
		Slower:   lipgloss.Color("#ffff00"),
		Mismatch: lipgloss.Color("#ff0000"),
		Accent:   lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Title:    lipgloss.Color("#ffffff"),
		Header:   lipgloss.Color("#cccccc"),
		Border:   lipgloss.Color("#888888"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Faster:   lipgloss.Color("#00ff00"),
		Slower:   lipgloss.Color("#ffaa00"),
		Mismatch: lipgloss.Color("#ff0000"),
		Accent:   lipgloss.Color("#0088ff"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#0077be"),
		Header:   lipgloss.Color("#00a8cc"),
		Border:   lipgloss.Color("#4488aa"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Faster:   lipgloss.Color("#00ff88"),
		Slower:   lipgloss.Color("#ffcc00"),
		Mismatch: lipgloss.Color("#ff4444"),
		Accent:   lipgloss.Color("#ffd700"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Title:    lipgloss.Color("#ff6b6b"),
		Header:   lipgloss.Color("#feca57"),
		Border:   lipgloss.Color("#8b6b8c"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Faster:   lipgloss.Color("#5fd068"),
		Slower:   lipgloss.Color("#ffc048"),
		Mismatch: lipgloss.Color("#ff4757"),
		Accent:   lipgloss.Color("#ff9ff3"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	t, err := LookupTheme(name)
	if err != nil {
		return ThemeCyberpunk
	}
	return t
}

func LookupTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme: %s", name)
}

// NextTheme returns the theme after t in Themes, wrapping around.
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
