package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textrag/internal/domain"
)

// AskPort is the TUI-facing subset of the RAG service.
type AskPort interface {
	Ask(ctx context.Context, dataset, question string, topK int) (domain.Answer, error)
}

// Model is the Bubble Tea model for the interactive ask console.
type Model struct {
	service  AskPort
	dataset  string
	input    textinput.Model
	viewport viewport.Model
	answer   domain.Answer
	status   string
	cursor   int
	ready    bool
	asked    bool
}

// New creates a new console model bound to a dataset.
func New(service AskPort, dataset string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		dataset:  dataset,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Dataset %q loaded. Type a question.", dataset),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and question boxes
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + question box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				ans, err := m.service.Ask(context.Background(), m.dataset, q, 0)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.answer = domain.Answer{}
					m.asked = false
				} else {
					m.status = fmt.Sprintf("Answer for %q (%d sources)", q, len(ans.Sources))
					m.answer = ans
					m.cursor = 0
					m.asked = true
				}
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "down":
			if len(m.answer.Sources) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Sources)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if len(m.answer.Sources) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Sources)) % len(m.answer.Sources)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("textrag — ask your documents")
	answer := answerBoxStyle.Render(m.viewport.View())
	question := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + answer + "\n" + question + "\n" + status
}

func (m Model) renderAnswer() string {
	if !m.asked {
		return "No answer yet. Ask something."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render(m.answer.Text))
	if len(m.answer.Sources) > 0 {
		src := m.answer.Sources[m.cursor]
		b.WriteString("\n\n")
		b.WriteString(sourceTitleStyle.Render(fmt.Sprintf("Source %d/%d  score=%.3f  (↑/↓ to browse)",
			m.cursor+1, len(m.answer.Sources), src.Score)))
		b.WriteString("\n")
		b.WriteString(src.Chunk.Text)
	}
	return b.String()
}

var (
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
