package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/internal/events"
	"github.com/jwebster45206/npc-dialog/internal/logger"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
)

const (
	sidebarWidth  = 26
	panelHeight   = 9
	maxTranscript = 500
)

// Publisher sends drained transitions somewhere outside the process.
type Publisher interface {
	PublishAll(ctx context.Context, sessionID uuid.UUID, ts []dialog.Transition) error
}

var _ Publisher = (*events.Broadcaster)(nil)

// ConsoleUI is the BubbleTea model that runs the scene.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	world   *World
	logger  *slog.Logger
	feed    *feed
	session uuid.UUID
	frame   time.Duration

	transcript    viewport.Model
	lines         []string
	pending       dialog.Input
	status        string
	width         int
	height        int
	ready         bool
	showQuitModal bool
}

type frameMsg time.Time

type publishedMsg struct{ err error }

// NewConsoleUI builds the model. publisher may be nil. Call Close once the
// program has exited.
func NewConsoleUI(w *World, log *slog.Logger, publisher Publisher, frameRate int) ConsoleUI {
	vp := viewport.New(40, 10)
	vp.MouseWheelEnabled = true

	m := ConsoleUI{
		world:      w,
		logger:     log,
		session:    uuid.New(),
		frame:      time.Second / time.Duration(frameRate),
		transcript: vp,
	}
	if publisher != nil {
		m.feed = newFeed(publisher, m.session, log)
	}
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.feed.wait())
}

// Close flushes the event feed.
func (m ConsoleUI) Close() {
	m.feed.Close()
}

func (m ConsoleUI) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		in := m.pending
		m.pending = dialog.InputNone
		ts := m.world.Step(in, m.frame.Seconds())
		if len(ts) > 0 {
			m.appendTranscript(ts)
			m.feed.Send(ts)
		}
		return m, m.tick()

	case publishedMsg:
		m.status = "event publishing failed"
		return m, m.feed.wait()
	}
	return m, nil
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Force):
		return m.quit()
	case key.Matches(msg, keys.Quit):
		m.showQuitModal = true
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copyLine()
		return m, nil
	}

	talking := m.world.Manager.Active() != nil
	if in := inputFor(msg, talking); in != dialog.InputNone {
		// one input per frame; the latest press wins
		m.pending = in
		return m, nil
	}
	if dx, dz, ok := moveFor(msg); ok {
		m.world.Move(dx, dz)
		return m, nil
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case frameMsg:
		// keep the clock running behind the modal
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m.quit()
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}
	return m, nil
}

// quit force-ends any open conversation so the feed sees it close.
func (m ConsoleUI) quit() (tea.Model, tea.Cmd) {
	m.world.Manager.CancelActive()
	if ts := m.world.Manager.DrainTransitions(); len(ts) > 0 {
		m.appendTranscript(ts)
		m.feed.Send(ts)
	}
	return m, tea.Quit
}

func (m *ConsoleUI) layout() {
	mapW, mapH := m.mapSize()
	m.world.Manager.SetViewport(scene.Viewport{Width: mapW, Height: mapH})
	m.transcript.Width = max(m.width-sidebarWidth-4, 10)
	m.transcript.Height = max(m.height-mapH-panelHeight-3, 3)
	m.refreshTranscript()
}

func (m ConsoleUI) mapSize() (int, int) {
	w := max(m.width-sidebarWidth-4, 10)
	h := max((m.height-panelHeight-3)/2, 5)
	return w, h
}

func (m *ConsoleUI) appendTranscript(ts []dialog.Transition) {
	for _, t := range ts {
		if line, ok := m.world.Describe(t); ok {
			m.lines = append(m.lines, line)
		}
		m.logger.Debug("Transition", "kind", t.Kind, "character", t.Character, "score", t.Score)
	}
	if len(m.lines) > maxTranscript {
		m.lines = m.lines[len(m.lines)-maxTranscript:]
	}
	m.refreshTranscript()
}

func (m *ConsoleUI) refreshTranscript() {
	width := m.transcript.Width
	wrapped := make([]string, len(m.lines))
	for i, line := range m.lines {
		wrapped[i] = wrapText(line, width)
	}
	m.transcript.SetContent(strings.Join(wrapped, "\n"))
	m.transcript.GotoBottom()
}

func (m *ConsoleUI) copyLine() {
	c := m.world.Manager.CurrentContent()
	if c.Kind == dialog.ContentNone || c.Text == "" {
		m.status = "nothing to copy"
		return
	}
	if err := clipboard.WriteAll(c.Text); err != nil {
		logger.WithError(m.logger, err).Warn("Failed to copy to clipboard")
		m.status = "clipboard unavailable"
		return
	}
	m.status = "copied"
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Progress is not saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	mapW, mapH := m.mapSize()
	mgr := m.world.Manager

	var options []string
	if r := mgr.Active(); r != nil {
		options = r.Entry().Options
	}
	c := mgr.CurrentContent()

	status := helpLine()
	if m.status != "" {
		status = m.status + "  " + status
	}
	if c.Screen != nil {
		status = fmt.Sprintf("talking at %.0f,%.0f  %s", c.Screen.X, c.Screen.Y, status)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		renderMap(m.world, mapW, mapH),
		renderPanel(c, options, mapW+2),
		m.transcript.View(),
		promptStyle.Render(status),
	)
	right := lipgloss.NewStyle().Width(sidebarWidth).PaddingLeft(2).Render(renderSidebar(m.world))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
