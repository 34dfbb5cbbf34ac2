// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the coach TUI.
package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
	"github.com/jeranaias/coach-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// Sidebar renders the session list, most recent first, with the current
// session highlighted.
type Sidebar struct {
	Sessions  []model.Session
	CurrentID string
	Width     int
	Height    int
	Theme     *styles.Theme
}

// Render returns the sidebar column.
func (s Sidebar) Render() string {
	innerWidth := s.Width - 2
	if innerWidth < 10 {
		innerWidth = 10
	}

	var b strings.Builder
	b.WriteString(s.Theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n")

	now := time.Now()
	rows := 0
	maxRows := s.Height - 2
	if maxRows < 1 {
		maxRows = 1
	}

	for _, sess := range s.Sessions {
		if rows >= maxRows {
			more := strconv.Itoa(len(s.Sessions) - rows)
			b.WriteString("\n")
			b.WriteString(s.Theme.SessionMeta.Render("… " + more + " more"))
			break
		}

		title := util.TruncateWidth(sess.Title, innerWidth)
		style := s.Theme.SessionItem
		if sess.ID == s.CurrentID {
			style = s.Theme.SessionItemSelected
		}

		b.WriteString("\n")
		b.WriteString(style.Render(util.PadRight(title, innerWidth)))
		b.WriteString("\n")
		b.WriteString(s.Theme.SessionMeta.Render(RelativeTime(sess.UpdatedAt, now)))
		rows++
	}

	return s.Theme.Sidebar.Width(s.Width).Render(b.String())
}
