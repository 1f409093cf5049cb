package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ember/internal/config"
	"ember/internal/engine"
	"ember/internal/styles"
)

func InitialModel(cfg config.Config, eng *engine.Engine, worker *engine.Worker) Model {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = MaxInputHeight
	ti.SetHeight(2)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB"))

	vp := viewport.New(60, 15)

	return Model{
		TextInput: ti,
		Viewport:  vp,
		Spinner:   sp,
		Engine:    eng,
		Worker:    worker,
		State:     eng.State(),
		Cfg:       cfg,
		Messages:  []string{},
		StreamOn:  cfg.Stream,
		ToolsOn:   cfg.UseTools,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
	)
}

func NewProgram(cfg config.Config, eng *engine.Engine, worker *engine.Worker) *tea.Program {
	styles.InitTheme()
	m := InitialModel(cfg, eng, worker)
	return tea.NewProgram(&m, tea.WithAltScreen())
}
