package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"ember/internal/config"
	"ember/internal/engine"
	"ember/internal/models"
)

const (
	MaxChatWidth = 100
	ModalWidth   = 60

	// Input sizing
	MaxInputHeight = 6
)

// eventMsg carries one engine event plus the channel to keep draining.
type eventMsg struct {
	ev engine.Event
	ch <-chan engine.Event
}

// turnEndedMsg fires when the event channel closes, i.e. the turn's
// goroutine is gone. A cancelled turn ends this way without a DoneEvent.
type turnEndedMsg struct{}

type Model struct {
	Viewport  viewport.Model
	Messages  []string
	TextInput textarea.Model
	Spinner   spinner.Model
	Renderer  *glamour.TermRenderer

	Engine *engine.Engine
	Worker *engine.Worker
	State  *models.State
	Cfg    config.Config

	Err     error
	Loading bool

	WindowWidth  int
	WindowHeight int

	// In-flight turn display state
	StreamPlain    string
	StreamThinking string
	ExecutingTool  string
	ToolArguments  string
	ToolActions    []models.ToolAction

	StreamOn      bool
	ToolsOn       bool
	ShortcutsOpen bool
}
