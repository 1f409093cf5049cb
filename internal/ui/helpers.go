package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"ember/internal/models"
	"ember/internal/styles"
)

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func FormatUserMessage(content string, width int, isFirst bool) string {
	label := styles.UserLabelStyle.Render("YOU")
	msg := styles.UserMsgStyle.Width(width - 4).Render(content)
	if isFirst {
		return fmt.Sprintf("\n%s\n%s", label, msg)
	}
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatAIMessage(content string) string {
	label := styles.AiLabelStyle.Render("EMBER")
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatThinking(content string) string {
	return styles.ThinkingStyle.Render(strings.TrimSpace(content))
}

func FormatToolActions(actions []models.ToolAction) string {
	var lines []string
	for _, action := range actions {
		icon := styles.ToolIconStyle.Render("→")
		name := styles.ToolNameStyle.Render(action.Name)
		detail := styles.ToolDetailStyle.Render(action.Summary)
		lines = append(lines, styles.ToolActionStyle.Render(fmt.Sprintf("%s %s %s", icon, name, detail)))
	}
	return strings.Join(lines, "\n")
}
