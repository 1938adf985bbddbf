// Package ui is the terminal chat view: a viewport transcript, an input
// prompt and a spinner while a cycle is in flight. All conversational
// behavior lives in the dispatch package; this model only routes input and
// re-renders the transcript when the sink changes.
package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinechat/internal/dispatch"
	"cinechat/internal/transcript"
)

// SubmitMsg schedules a dispatch cycle for one utterance. The rating
// sub-flow re-enters the dispatcher by sending this message to the
// program, so re-entry is a queued task rather than a recursive call.
type SubmitMsg struct {
	Utterance string
}

// RefreshMsg is sent whenever the transcript changed; the view re-renders
// and scrolls to the bottom.
type RefreshMsg struct{}

type cycleDoneMsg struct {
	control *dispatch.Control
}

type ratingDoneMsg struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

type Model struct {
	log  *transcript.Log
	disp *dispatch.Dispatcher

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	// live rating control from the most recent pending-evaluation cycle
	control  *dispatch.Control
	inflight int

	width  int
	height int
	ready  bool
}

func New(log *transcript.Log, disp *dispatch.Dispatcher) Model {
	ti := textinput.New()
	ti.Placeholder = "Escribe tu mensaje..."
	ti.Prompt = promptStyle.Render("› ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{log: log, disp: disp, input: ti, spin: sp}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vpHeight := msg.Height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleSubmit()
		}

	case SubmitMsg:
		return m.startCycle(msg.Utterance)

	case cycleDoneMsg:
		m.inflight--
		if msg.control != nil {
			m.control = msg.control
		}
		m.refresh()
		return m, nil

	case ratingDoneMsg:
		return m, nil

	case RefreshMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.inflight > 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	// A live rating control captures score and exit inputs first.
	if ctrl := m.control; ctrl != nil && !ctrl.Used() {
		if score, exit, ok := ParseRatingInput(text); ok {
			m.control = nil
			if exit {
				ctrl.Exit()
				return m, nil
			}
			return m, rateCmd(ctrl, score)
		}
	}
	return m.startCycle(text)
}

func (m Model) startCycle(utterance string) (tea.Model, tea.Cmd) {
	m.inflight++
	cmds := []tea.Cmd{dispatchCmd(m.disp, utterance)}
	if m.inflight == 1 {
		cmds = append(cmds, m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

func dispatchCmd(d *dispatch.Dispatcher, utterance string) tea.Cmd {
	return func() tea.Msg {
		ctrl := d.Dispatch(context.Background(), utterance)
		return cycleDoneMsg{control: ctrl}
	}
}

func rateCmd(ctrl *dispatch.Control, score int) tea.Cmd {
	return func() tea.Msg {
		ctrl.Rate(context.Background(), score)
		return ratingDoneMsg{}
	}
}

// ParseRatingInput reads a rating-control activation: "0".."5" scores, or
// salir/exit. ok is false for anything else, which falls through to a
// normal dispatch cycle.
func ParseRatingInput(text string) (score int, exit bool, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "salir" || t == "exit" {
		return 0, true, true
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 0 || n > 5 {
		return 0, false, false
	}
	return n, false, true
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	width := m.viewport.Width
	var blocks []string
	for _, e := range m.log.Entries() {
		switch {
		case e.Sender == transcript.User:
			blocks = append(blocks, userStyle.Render("Tú › ")+botStyle.Copy().Width(width-6).Render(e.Content))
		case e.Block:
			// preformatted content is never re-wrapped
			blocks = append(blocks, botStyle.Render(e.Content))
		default:
			blocks = append(blocks, botStyle.Copy().Width(width).Render(e.Content))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) View() string {
	if !m.ready {
		return "cargando..."
	}
	header := titleStyle.Render("🎬 cinechat") + hintStyle.Render("  · esc para salir")
	status := ""
	if m.inflight > 0 {
		status = m.spin.View() + hintStyle.Render("esperando al asistente...")
	}
	return header + "\n" + m.viewport.View() + "\n" + status + "\n" + m.input.View()
}
