// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coach-tui/internal/ui/components"
	"github.com/jeranaias/coach-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the complete chat interface.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return m.theme.App.Render(b.String())
}

// renderHeader renders the top bar with the brand and current session title.
func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("Coach AI")

	title := ""
	for _, sess := range m.ctrl.Sessions() {
		if sess.ID == m.ctrl.CurrentID() {
			title = sess.Title
			break
		}
	}

	line := brand
	if title != "" {
		line += "  " + m.theme.HeaderTitle.Render(util.TruncateWidth(title, m.width-20))
	}

	return m.theme.Container.Render(line)
}

// renderBody renders the sidebar column next to the transcript viewport.
func (m Model) renderBody() string {
	transcript := m.viewport.View()
	if len(m.ctrl.Messages()) == 0 && m.state == StateReady {
		transcript = m.renderWelcome()
	}

	if !m.sidebarVisible() {
		return m.theme.Container.Render(transcript)
	}

	sidebar := components.Sidebar{
		Sessions:  m.ctrl.Sessions(),
		CurrentID: m.ctrl.CurrentID(),
		Width:     sidebarWidth - 2,
		Height:    m.viewport.Height,
		Theme:     m.theme,
	}.Render()

	row := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, transcript)
	return m.theme.Container.Render(row)
}

// renderWelcome renders the empty-session welcome box.
func (m Model) renderWelcome() string {
	logo := m.theme.WelcomeLogo.Render("Coach AI")
	info := m.theme.WelcomeInfo.Render("Ask anything to get started.")
	box := m.theme.WelcomeBox.Render(logo + "\n\n" + info)

	return lipgloss.Place(
		m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// renderInput renders the input box, swapping in the spinner while a reply
// is streaming.
func (m Model) renderInput() string {
	if m.state == StateStreaming {
		waiting := m.spinner.View() + " " + m.theme.ThinkingText.Render("Coach is responding... (Esc to cancel)")
		return m.theme.InputContainer.Width(m.inputBoxWidth()).Render(waiting)
	}

	return m.theme.InputContainer.Width(m.inputBoxWidth()).Render(m.input.View())
}

// renderStatusBar renders the shortcut hints.
func (m Model) renderStatusBar() string {
	parts := make([]string, 0, 4)
	for _, binding := range m.keyMap.ShortHelp() {
		h := binding.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  •  "))
}

func (m Model) inputBoxWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
