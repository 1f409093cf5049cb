package styles

import "testing"

func TestIsDarkTracksCurrentTheme(t *testing.T) {
	prev := CurrentTheme
	defer func() { CurrentTheme = prev }()

	CurrentTheme = DarkTheme
	if !IsDark() {
		t.Error("dark theme should report dark")
	}

	CurrentTheme = LightTheme
	if IsDark() {
		t.Error("light theme should report light")
	}
}
