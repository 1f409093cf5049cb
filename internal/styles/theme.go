package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color scheme for the application
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color
}

// DarkTheme is the dark mode color scheme
var DarkTheme = Theme{
	Primary:   lipgloss.Color("#818CF8"), // Indigo 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400
	Accent:    lipgloss.Color("#F472B6"), // Pink 400

	TextPrimary:   lipgloss.Color("#F1F5F9"), // Slate 100
	TextSecondary: lipgloss.Color("#94A3B8"), // Slate 400
	TextMuted:     lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#FB7185"), // Rose 400

	Border: lipgloss.Color("#27272A"), // Zinc 800
}

// LightTheme is the light mode color scheme
var LightTheme = Theme{
	Primary:   lipgloss.Color("#4F46E5"), // Indigo 600
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600
	Accent:    lipgloss.Color("#DB2777"), // Pink 600

	TextPrimary:   lipgloss.Color("#18181B"), // Zinc 900
	TextSecondary: lipgloss.Color("#52525B"), // Zinc 600
	TextMuted:     lipgloss.Color("#A1A1AA"), // Zinc 400

	Success: lipgloss.Color("#10B981"), // Emerald 500
	Warning: lipgloss.Color("#F59E0B"), // Amber 500
	Error:   lipgloss.Color("#EF4444"), // Red 500

	Border: lipgloss.Color("#E4E4E7"), // Zinc 200
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

// InitTheme sets the current theme based on terminal background
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}

// IsDark reports whether the active theme is the dark scheme.
func IsDark() bool {
	return CurrentTheme == DarkTheme
}
