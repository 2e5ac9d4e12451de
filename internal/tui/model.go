package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flarerag/internal/service"
)

// ChatPort is the TUI-facing subset of the pipeline.
type ChatPort interface {
	Chat(ctx context.Context, query string) (*service.ChatResult, error)
}

// Model is the Bubble Tea model for the interactive chat front-end.
type Model struct {
	pipeline  ChatPort
	input     textinput.Model
	viewport  viewport.Model
	result    *service.ChatResult
	status    string
	ready     bool
	lastQuery string
}

// New creates a new chat TUI instance.
func New(pipeline ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{pipeline: pipeline, input: ti, viewport: vp, status: "Index loaded. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.pipeline.Chat(context.Background(), q)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.result = nil
				} else {
					m.status = fmt.Sprintf("%s for %q", res.Classification, q)
					m.result = res
					m.lastQuery = q
					m.input.SetValue("")
				}
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Flare RAG Chat")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(m.result.Response)
	if len(m.result.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sourceHeaderStyle.Render("Sources"))
		for _, src := range m.result.Sources {
			name := "unknown"
			if fn, ok := src.Metadata["filename"].(string); ok && fn != "" {
				name = fn
			}
			fmt.Fprintf(&b, "\n  %s  score=%.3f", name, src.Score)
		}
	}
	return b.String()
}

var (
	answerBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
