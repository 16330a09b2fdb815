package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type uiPhase int

const (
	phasePrompt uiPhase = iota
	phaseLoading
	phaseReview
	phaseEditInsert
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)

// completionRoundMsg carries the outcome of one request/response cycle with
// the completion service back into the event loop.
type completionRoundMsg struct {
	segments []segment
	followUp bool
	err      error
}

type keyMap struct {
	submit      key.Binding
	followUp    key.Binding
	apply       key.Binding
	nextUnit    key.Binding
	prevUnit    key.Binding
	toggle      key.Binding
	accept      key.Binding
	reject      key.Binding
	editInsert  key.Binding
	prevVersion key.Binding
	nextVersion key.Binding
	toggleHelp  key.Binding
	cancel      key.Binding
	quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "get suggestions"),
		),
		followUp: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "send follow-up"),
		),
		apply: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "apply accepted changes"),
		),
		nextUnit: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next change"),
		),
		prevUnit: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev change"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "accept/reject"),
		),
		accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept change"),
		),
		reject: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reject change"),
		),
		editInsert: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit inserted text"),
		),
		prevVersion: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "previous version"),
		),
		nextVersion: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "next version"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.followUp, k.apply, k.prevVersion, k.nextVersion, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.followUp, k.apply},
		{k.nextUnit, k.prevUnit, k.toggle, k.accept, k.reject, k.editInsert},
		{k.prevVersion, k.nextVersion},
		{k.toggleHelp, k.cancel, k.quit},
	}
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap
	help   help.Model

	session      *editSession
	client       *completionClient
	quickActions []quickAction
	events       *eventLogger
	log          zerolog.Logger

	phase      uiPhase
	showHelp   bool
	prompt     textarea.Model
	diffView   viewport.Model
	spinner    spinner.Model
	insert     textinput.Model
	editIndex  int // segment index under insert-text editing
	unitCursor int

	status     string
	statusKind statusKind

	applied   bool
	finalText string
}

func initialModel(session *editSession, client *completionClient, actions []quickAction, events *eventLogger, log zerolog.Logger) *model {
	m := &model{
		styles:       newStyles(),
		keys:         newKeyMap(),
		help:         help.New(),
		session:      session,
		client:       client,
		quickActions: actions,
		events:       events,
		log:          log,
		phase:        phasePrompt,
		editIndex:    -1,
	}

	m.prompt = textarea.New()
	m.prompt.Placeholder = "Enter your editing instructions..."
	m.prompt.CharLimit = 4096
	m.prompt.ShowLineNumbers = false
	m.prompt.SetHeight(3)
	m.prompt.Focus()

	m.insert = textinput.New()
	m.insert.Prompt = "> "
	m.insert.CharLimit = 4096

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.diffView = viewport.New(80, 12)

	m.setStatus(statusInfo, fmt.Sprintf("Selected: %q. Provide instructions and press ctrl+s.",
		truncateText(session.Selection.Text(), 50)))
	m.events.Emit("session_open", map[string]string{
		"source": string(session.Selection.Source),
		"length": fmt.Sprintf("%d", len(session.Selection.Text())),
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) setStatus(kind statusKind, message string) {
	m.statusKind = kind
	m.status = message
}

// requestCmd runs one completion round off the event loop. Controls stay
// disabled until the round message arrives, so only one request is ever in
// flight for the session.
func (m *model) requestCmd(messages []chatMessage, followUp bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		segments, err := client.RequestEdit(context.Background(), messages)
		return completionRoundMsg{segments: segments, followUp: followUp, err: err}
	}
}

func (m *model) submitInstructions(instructions string) tea.Cmd {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		m.setStatus(statusError, "Please enter your instructions.")
		return nil
	}
	followUp := !m.session.History.Empty()
	var messages []chatMessage
	if followUp {
		messages = m.session.FollowUpMessages(instructions)
	} else {
		messages = m.session.InitialMessages(instructions)
	}
	m.phase = phaseLoading
	m.prompt.Blur()
	m.setStatus(statusInfo, "Processing with AI...")
	m.events.Emit("request", map[string]string{
		"follow_up": fmt.Sprintf("%t", followUp),
	})
	m.log.Debug().Bool("follow_up", followUp).Msg("completion request issued")
	return tea.Batch(m.spinner.Tick, m.requestCmd(messages, followUp))
}

func (m *model) handleRound(msg completionRoundMsg) {
	if msg.err != nil {
		// History stays untouched on any failure; the session remains
		// open so the user can retry or cancel.
		status := userErrorMessage(msg.err)
		m.setStatus(statusError, status)
		m.events.Emit("error", map[string]string{"message": status})
		m.log.Warn().Err(msg.err).Msg("completion round failed")
		if m.session.History.Empty() {
			m.phase = phasePrompt
			m.prompt.Focus()
		} else {
			m.phase = phaseReview
		}
		return
	}
	m.session.Record(msg.segments)
	m.unitCursor = firstInteractiveUnit(renderUnits(msg.segments))
	m.phase = phaseReview
	m.prompt.Reset()
	m.setStatus(statusInfo, "Review the changes. Use space to accept or reject, ctrl+a to apply.")
	m.events.Emit("version_appended", map[string]string{
		"version":  fmt.Sprintf("%d", m.session.History.Len()),
		"segments": fmt.Sprintf("%d", len(msg.segments)),
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.prompt.SetWidth(maxInt(24, m.width-6))
		m.diffView.Width = maxInt(24, m.width-6)
		m.diffView.Height = maxInt(4, m.height-m.prompt.Height()-10)
		return m, nil

	case spinner.TickMsg:
		if m.phase == phaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(message)
			return m, cmd
		}
		return m, nil

	case completionRoundMsg:
		m.handleRound(message)
		return m, nil

	case tea.KeyMsg:
		if message.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			switch message.String() {
			case "?", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}
		switch m.phase {
		case phasePrompt:
			return m.updatePrompt(message)
		case phaseLoading:
			// No cancellation: the in-flight call just runs out.
			return m, nil
		case phaseReview:
			return m.updateReview(message)
		case phaseEditInsert:
			return m.updateEditInsert(message)
		}
	}

	switch m.phase {
	case phasePrompt:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	case phaseEditInsert:
		var cmd tea.Cmd
		m.insert, cmd = m.insert.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.session.History.Empty() {
			m.phase = phaseReview
			m.prompt.Blur()
			return m, nil
		}
		return m, tea.Quit
	case "ctrl+s", "ctrl+enter":
		return m, m.submitInstructions(m.prompt.Value())
	}
	if action, ok := m.quickActionFor(msg.String()); ok {
		m.setStatus(statusInfo, fmt.Sprintf("Quick action: %s", action.Label))
		return m, m.submitInstructions(action.Prompt)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *model) quickActionFor(keyString string) (quickAction, bool) {
	for _, action := range m.quickActions {
		if keyString == fmt.Sprintf("alt+%d", action.Slot) {
			return action, true
		}
	}
	return quickAction{}, false
}

func (m *model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.session.History.CurrentVersion()
	if current == nil {
		m.phase = phasePrompt
		m.prompt.Focus()
		return m, nil
	}
	units := renderUnits(current.Segments)

	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.cancel):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.nextUnit):
		m.unitCursor = nextInteractiveUnit(units, m.unitCursor, 1)
		m.syncDiffView()
		return m, nil

	case key.Matches(msg, m.keys.prevUnit):
		m.unitCursor = nextInteractiveUnit(units, m.unitCursor, -1)
		m.syncDiffView()
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		m.decide(units, !m.cursorAccepted(units))
		return m, nil

	case key.Matches(msg, m.keys.accept):
		m.decide(units, true)
		return m, nil

	case key.Matches(msg, m.keys.reject):
		m.decide(units, false)
		return m, nil

	case key.Matches(msg, m.keys.editInsert):
		m.startInsertEdit(units)
		return m, nil

	case key.Matches(msg, m.keys.prevVersion):
		if m.session.History.Navigate(-1) {
			m.resetCursorForCurrentVersion()
		}
		return m, nil

	case key.Matches(msg, m.keys.nextVersion):
		if m.session.History.Navigate(1) {
			m.resetCursorForCurrentVersion()
		}
		return m, nil

	case key.Matches(msg, m.keys.followUp):
		m.phase = phasePrompt
		m.prompt.Reset()
		m.prompt.Focus()
		m.setStatus(statusInfo, "Enter follow-up instructions and press ctrl+s.")
		return m, textarea.Blink

	case key.Matches(msg, m.keys.apply):
		return m.applyCurrent()
	}
	return m, nil
}

func (m *model) cursorAccepted(units []renderUnit) bool {
	if m.unitCursor < 0 || m.unitCursor >= len(units) {
		return true
	}
	return units[m.unitCursor].Accepted
}

func (m *model) decide(units []renderUnit, accepted bool) {
	if m.unitCursor < 0 || m.unitCursor >= len(units) {
		return
	}
	unit := units[m.unitCursor]
	if !m.session.History.SetAccepted(unit, accepted) {
		// Older versions are read-only; nothing to tell the user.
		m.log.Debug().Int("version", m.session.History.Current).Msg("decision ignored on non-latest version")
		return
	}
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	m.events.Emit("toggle", map[string]string{"verdict": verdict})
}

func (m *model) startInsertEdit(units []renderUnit) {
	if !m.session.History.OnLatest() {
		m.log.Debug().Msg("insert edit ignored on non-latest version")
		return
	}
	if m.unitCursor < 0 || m.unitCursor >= len(units) {
		return
	}
	unit := units[m.unitCursor]
	if unit.InsertIndex < 0 {
		m.setStatus(statusInfo, "Only inserted text can be edited.")
		return
	}
	current := m.session.History.CurrentVersion()
	m.editIndex = unit.InsertIndex
	m.insert.SetValue(current.Segments[unit.InsertIndex].Text)
	m.insert.CursorEnd()
	m.insert.Focus()
	m.phase = phaseEditInsert
}

func (m *model) updateEditInsert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseReview
		m.insert.Blur()
		m.editIndex = -1
		return m, nil
	case "enter":
		if m.session.History.SetInsertText(m.editIndex, m.insert.Value()) {
			m.events.Emit("insert_edited", nil)
		}
		m.phase = phaseReview
		m.insert.Blur()
		m.editIndex = -1
		return m, nil
	}
	var cmd tea.Cmd
	m.insert, cmd = m.insert.Update(msg)
	return m, cmd
}

func (m *model) applyCurrent() (tea.Model, tea.Cmd) {
	final, err := m.session.Apply()
	if err != nil {
		m.setStatus(statusError, "Failed to apply changes: "+err.Error())
		m.log.Error().Err(err).Msg("apply failed")
		return m, nil
	}
	m.applied = true
	m.finalText = final
	m.events.Emit("apply", map[string]string{
		"source": string(m.session.Selection.Source),
	})
	return m, tea.Quit
}

func (m *model) resetCursorForCurrentVersion() {
	current := m.session.History.CurrentVersion()
	if current == nil {
		m.unitCursor = -1
		return
	}
	m.unitCursor = firstInteractiveUnit(renderUnits(current.Segments))
	m.syncDiffView()
}

func (m *model) syncDiffView() {
	// Content is rebuilt in View; just keep the viewport in range.
	if m.diffView.PastBottom() {
		m.diffView.GotoBottom()
	}
}

func firstInteractiveUnit(units []renderUnit) int {
	for i, unit := range units {
		if unit.Interactive {
			return i
		}
	}
	return -1
}

// nextInteractiveUnit moves the cursor among interactive units, clamped at
// both ends.
func nextInteractiveUnit(units []renderUnit, from, direction int) int {
	for i := from + direction; i >= 0 && i < len(units); i += direction {
		if units[i].Interactive {
			return i
		}
	}
	return from
}

func truncateText(text string, limit int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
