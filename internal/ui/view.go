package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ember/internal/styles"
)

func GetWelcomeScreen(width, height int) string {
	art := `
 ╭──────────────────────────────────────────────╮
 │                                              │
 │   ▓█████  ███▄ ▄███▓ ▄▄▄▄    ▓█████  ██▀███  │
 │   ▓█   ▀ ▓██▒▀█▀ ██▒▓█████▄  ▓█   ▀ ▓██ ▒ ██▒│
 │   ▒███   ▓██    ▓██░▒██▒ ▄██ ▒███   ▓██ ░▄█ ▒│
 │   ▒▓█  ▄ ▒██    ▒██ ▒██░█▀   ▒▓█  ▄ ▒██▀▀█▄  │
 │   ░▒████▒▒██▒   ░██▒░▓█  ▀█▓ ░▒████▒░██▓ ▒██▒│
 │   ░░ ▒░ ░░ ▒░   ░  ░░▒▓███▀▒ ░░ ▒░ ░░ ▒▓ ░▒▓░│
 │    ░ ░  ░░  ░      ░▒░▒   ░   ░ ░  ░  ░▒ ░ ▒░│
 │                                              │
 ╰──────────────────────────────────────────────╯
`
	subtitle := "local models, loose sparks"

	styledArt := styles.WelcomeArtStyle.Render(art)
	styledSubtitle := styles.WelcomeSubtitleStyle.Italic(true).Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	if len(m.Messages) == 0 && !m.Loading {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	content := strings.Join(m.Messages, "\n\n")
	if m.Loading {
		statusText := " Generating..."
		if m.ExecutingTool != "" {
			statusText = fmt.Sprintf(" %s...", m.ExecutingTool)
		}

		var loadingParts []string
		loadingParts = append(loadingParts, styles.AiLabelStyle.Render("EMBER"))

		if m.StreamThinking != "" {
			loadingParts = append(loadingParts, FormatThinking(m.StreamThinking))
		}
		if len(m.ToolActions) > 0 {
			loadingParts = append(loadingParts, FormatToolActions(m.ToolActions))
		}
		if m.StreamPlain != "" {
			loadingParts = append(loadingParts, styles.AiMsgStyle.Render(m.StreamPlain))
		}

		loadingParts = append(loadingParts, fmt.Sprintf("%s%s", m.Spinner.View(), statusText))

		loadingMsg := strings.Join(loadingParts, "\n")
		if len(m.Messages) > 0 {
			content = content + "\n\n" + loadingMsg
		} else {
			content = loadingMsg
		}
	}
	m.Viewport.SetContent(content)
	m.Viewport.GotoBottom()
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.TitleStyle.Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Ctrl+C", "Quit"},
		{"Esc", "Cancel current response (or quit when idle)"},
		{"Ctrl+N", "New Session"},
		{"Ctrl+T", "Toggle Tools"},
		{"Ctrl+G", "Toggle Streaming"},
		{"Ctrl+S", "View Shortcuts (this menu)"},
		{"Shift+Enter", "Insert Newline"},
	}

	var items []string
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0E0E0"))

	for _, s := range shortcuts {
		items = append(items, fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc)))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderBottomBar() string {
	model := styles.ModelBadgeStyle.Render(TruncateRunes(m.State.Current(), 30))

	toggle := func(label string, on bool) string {
		if on {
			return styles.ToggleOnStyle.Render(label)
		}
		return styles.ToggleOffStyle.Render(label)
	}
	stream := toggle("stream", m.StreamOn)
	toolsBadge := toggle("tools", m.ToolsOn)

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render("Help: ^S")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, model, "  ", stream, "  ", toolsBadge)
	rightSide := help

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(bar)
}

func (m *Model) View() string {
	inputWidth := m.WindowWidth - 4
	inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TextInput.View())

	chatContent := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("EMBER"),
		"",
		m.Viewport.View(),
		"",
		inputBox,
	)
	chatArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, chatContent)
	bottomBar := m.RenderBottomBar()

	content := lipgloss.JoinVertical(lipgloss.Left, chatArea, bottomBar)

	if m.ShortcutsOpen {
		modal := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#B39DDB")).
			Padding(1, 2).
			Width(ModalWidth).
			Render(m.RenderShortcutsModal())

		return lipgloss.Place(
			m.WindowWidth,
			m.WindowHeight,
			lipgloss.Center,
			lipgloss.Center,
			modal,
		)
	}

	return content
}
