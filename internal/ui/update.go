package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"ember/internal/engine"
	"ember/internal/models"
	"ember/internal/render"
	"ember/internal/styles"
	"ember/internal/tools"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Loading {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.KeyMsg:
		if m.ShortcutsOpen {
			switch msg.String() {
			case "ctrl+c":
				m.stopTurn()
				return m, tea.Quit
			case "esc", "enter", "?", "ctrl+s":
				m.ShortcutsOpen = false
				return m, nil
			}
			return m, nil
		}

		if isNewlineShortcut(msg) {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			m.stopTurn()
			return m, tea.Quit

		case tea.KeyEsc:
			if m.Loading {
				// Abandon the in-flight turn; the channel close delivers
				// turnEndedMsg which finishes the bookkeeping.
				m.Worker.Cancel()
				return m, nil
			}
			m.stopTurn()
			return m, tea.Quit

		case tea.KeyCtrlN:
			m.ResetSession()
			return m, nil

		case tea.KeyCtrlT:
			m.ToolsOn = !m.ToolsOn
			m.Engine.SetUseTools(m.ToolsOn)
			return m, nil

		case tea.KeyCtrlG:
			m.StreamOn = !m.StreamOn
			m.Engine.SetStream(m.StreamOn)
			return m, nil

		case tea.KeyCtrlS:
			m.ShortcutsOpen = true
			return m, nil

		case tea.KeyEnter:
			if m.Loading {
				return m, nil
			}
			input := strings.TrimSpace(m.TextInput.Value())
			if input == "" {
				return m, nil
			}
			if input == "/clear" || input == "/reset" {
				m.ResetSession()
				return m, nil
			}

			m.Messages = append(m.Messages, FormatUserMessage(input, m.Viewport.Width, len(m.Messages) == 0))
			m.TextInput.Reset()
			m.updateInputLayout()
			m.UpdateViewport()

			return m, tea.Batch(m.startTurn(input), m.Spinner.Tick)
		}

	case eventMsg:
		cmd := m.handleEvent(msg.ev)
		return m, tea.Batch(cmd, waitForEvent(msg.ch))

	case turnEndedMsg:
		m.Worker.Join()
		if m.Loading {
			// No terminal event arrived: the turn was cancelled.
			m.finishTurn("", true)
		}
		m.UpdateViewport()
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		chatWidth := msg.Width - 2
		if chatWidth > MaxChatWidth {
			chatWidth = MaxChatWidth
		}
		m.Viewport.Width = chatWidth - 2

		m.updateInputLayout()
		glamourStyle := "dark"
		if !styles.IsDark() {
			glamourStyle = "light"
		}
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle),
			glamour.WithWordWrap(chatWidth-6),
		)
		m.UpdateViewport()
		return m, tea.Batch(tiCmd, vpCmd)
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Filter out terminal background color queries that leak into the input
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// waitForEvent blocks on the turn's event channel as a command, feeding
// the bubbletea loop one event at a time.
func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return turnEndedMsg{}
		}
		return eventMsg{ev: ev, ch: ch}
	}
}

func (m *Model) startTurn(input string) tea.Cmd {
	_, events, err := m.Worker.Start(context.Background(), input)
	if err != nil {
		m.Messages = append(m.Messages, styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		m.UpdateViewport()
		return nil
	}
	m.Loading = true
	m.Err = nil
	return waitForEvent(events)
}

func (m *Model) handleEvent(ev engine.Event) tea.Cmd {
	switch ev := ev.(type) {
	case engine.SegmentEvent:
		if ev.Segment.Kind == render.Thinking {
			m.StreamThinking += ev.Segment.Text
		} else {
			m.StreamPlain += ev.Segment.Text
		}
		m.UpdateViewport()

	case engine.ToolCallEvent:
		m.ExecutingTool = ev.Name
		m.ToolArguments = ev.Arguments
		m.UpdateViewport()

	case engine.ToolResultEvent:
		m.ExecutingTool = ""
		m.ToolActions = append(m.ToolActions, models.ToolAction{
			Name:    ev.Name,
			Summary: tools.Summarize(ev.Name, m.ToolArguments, ev.Result),
		})
		m.ToolArguments = ""
		m.UpdateViewport()

	case engine.DoneEvent:
		m.finishTurn(ev.Content, false)
		m.UpdateViewport()

	case engine.ErrorEvent:
		m.Loading = false
		m.Err = ev.Err
		m.clearTurnState()
		m.Messages = append(m.Messages, styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", ev.Err)))
		m.UpdateViewport()
	}
	return nil
}

// finishTurn folds the accumulated turn state into the transcript.
func (m *Model) finishTurn(content string, cancelled bool) {
	m.Loading = false

	var parts []string
	if m.StreamThinking != "" {
		parts = append(parts, FormatThinking(m.StreamThinking))
	}
	if len(m.ToolActions) > 0 {
		parts = append(parts, FormatToolActions(m.ToolActions))
	}

	display := content
	if cancelled {
		display = strings.TrimSpace(m.StreamPlain)
	}
	if m.Renderer != nil && display != "" {
		if rendered, err := m.Renderer.Render(display); err == nil {
			display = strings.TrimSpace(rendered)
		}
	}
	if display != "" {
		parts = append(parts, display)
	}
	if cancelled {
		parts = append(parts, styles.InfoStyle("(cancelled)"))
	}

	if len(parts) > 0 {
		m.Messages = append(m.Messages, FormatAIMessage(strings.Join(parts, "\n")))
	}
	m.clearTurnState()
}

func (m *Model) clearTurnState() {
	m.StreamPlain = ""
	m.StreamThinking = ""
	m.ExecutingTool = ""
	m.ToolArguments = ""
	m.ToolActions = nil
}

// stopTurn cancels any in-flight turn and waits for its goroutine before
// the program exits.
func (m *Model) stopTurn() {
	m.Worker.Cancel()
	m.Worker.Join()
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.WindowWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > MaxInputHeight {
		lineCount = MaxInputHeight
	}

	m.TextInput.MaxHeight = MaxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 5
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}

func (m *Model) ResetSession() {
	m.stopTurn()
	m.Engine.Session().Reset()
	m.State.Reset()
	m.Messages = []string{}
	m.Err = nil
	m.Loading = false
	m.clearTurnState()
	m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
	m.Viewport.GotoTop()
	m.TextInput.Reset()
	m.updateInputLayout()
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}
