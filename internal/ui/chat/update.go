// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coach-tui/internal/render"
	"github.com/jeranaias/coach-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshTranscript(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamSnapshotMsg:
		return m.handleSnapshot(msg)

	case StreamClosedMsg:
		return m.handleStreamClosed(msg)

	case StreamTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		// Flush a trailing dirty frame left behind by the rate cap.
		if m.gate.ShouldRender(false) {
			m.refreshTranscript(true)
		}
		return m, streamTickCmd()

	case ConfigReloadedMsg:
		m.ui = msg.Config.UI
		m.refreshTranscript(false)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state != StateStreaming {
			return m, nil
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming && m.exchange != nil {
			// The stream winds down through the normal close path; the
			// StreamClosedMsg resets state.
			m.exchange.Cancel()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.ctrl.NewSession()
		m.dropExchange()
		m.refreshTranscript(true)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevSession):
		m.stepSession(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.NextSession):
		m.stepSession(1)
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteSession):
		m.ctrl.DeleteSession(m.ctrl.CurrentID())
		m.dropExchange()
		m.refreshTranscript(true)
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.resize(m.width, m.height)
		m.refreshTranscript(false)
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts an exchange from the input's current text.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	ex := m.ctrl.SendMessage(text)
	if ex == nil {
		// No session or already in flight; keep the text for retry.
		return m, nil
	}

	m.input.Reset()
	m.exchange = ex
	m.state = StateStreaming
	m.gate.Reset()
	m.refreshTranscript(true)

	return m, tea.Batch(waitForSnapshot(ex), streamTickCmd(), m.spinner.Tick)
}

// =============================================================================
// STREAM HANDLING
// =============================================================================

func (m Model) handleSnapshot(msg StreamSnapshotMsg) (tea.Model, tea.Cmd) {
	if m.exchange == nil || msg.Epoch != m.exchange.Epoch {
		return m, nil
	}

	if m.ctrl.ApplySnapshot(msg.Epoch, msg.Snapshot) {
		m.gate.MarkDirty()
	}

	// Errors and final messages repaint immediately; intermediate frames
	// respect the rate cap.
	if m.gate.ShouldRender(msg.Snapshot.Terminal()) {
		m.refreshTranscript(true)
	}

	return m, waitForSnapshot(m.exchange)
}

func (m Model) handleStreamClosed(msg StreamClosedMsg) (tea.Model, tea.Cmd) {
	if m.exchange == nil || msg.Epoch != m.exchange.Epoch {
		return m, nil
	}

	m.ctrl.FinishExchange(msg.Epoch)
	m.exchange = nil
	m.state = StateReady
	m.refreshTranscript(true)

	return m, nil
}

// =============================================================================
// LAYOUT AND TRANSCRIPT
// =============================================================================

// resize recomputes component dimensions from the terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	// Narrow terminals drop the sidebar regardless of the toggle.
	contentWidth := width
	if m.sidebarVisible() {
		contentWidth -= sidebarWidth
	}
	contentWidth -= 4 // container padding and message frame

	// header + input box + status bar
	contentHeight := height - 6
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.input.Width = contentWidth - 6
	m.renderer = render.New(contentWidth - 2)
}

// sidebarVisible reports whether the sidebar fits and is toggled on.
func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.width >= 60
}

// dropExchange detaches from an orphaned exchange after a session switch.
// The controller has already bumped its epoch; the stale channel drains in
// the background and its snapshots are discarded.
func (m *Model) dropExchange() {
	m.exchange = nil
	m.state = StateReady
	m.gate.Reset()
}

// stepSession moves the selection through the session list.
func (m *Model) stepSession(delta int) {
	sessions := m.ctrl.Sessions()
	if len(sessions) < 2 {
		return
	}

	cur := 0
	for i := range sessions {
		if sessions[i].ID == m.ctrl.CurrentID() {
			cur = i
			break
		}
	}

	next := (cur + delta + len(sessions)) % len(sessions)
	m.ctrl.SelectSession(sessions[next].ID)
	m.dropExchange()
	m.refreshTranscript(true)
}

// refreshTranscript re-renders the visible messages into the viewport.
// Follows the bottom when requested or when the user was already there.
func (m *Model) refreshTranscript(follow bool) {
	messages := m.ctrl.Messages()
	wasAtBottom := m.viewport.AtBottom()

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, components.MessageBlock{
			Message:        msg,
			Body:           m.renderer.Message(msg),
			ShowTimestamps: m.ui.ShowTimestamps,
			Theme:          m.theme,
		}.Render())
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if follow || wasAtBottom {
		m.viewport.GotoBottom()
	}
}
