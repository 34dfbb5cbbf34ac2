// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the coach TUI.
package components

import (
	"strconv"
	"time"

	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
)

// StreamingCursor is appended to a reply that is still arriving.
const StreamingCursor = "▌"

// =============================================================================
// MESSAGE BLOCK
// =============================================================================

// MessageBlock renders one transcript entry: role label, timestamp, body.
// The body arrives pre-rendered (markdown/code/chart handling lives in the
// render package); this component only frames it.
type MessageBlock struct {
	Message        model.Message
	Body           string
	ShowTimestamps bool
	Theme          *styles.Theme
}

// Render returns the framed message block.
func (mb MessageBlock) Render() string {
	var label string
	var block = mb.Theme.CoachBlock

	switch mb.Message.Role {
	case model.RoleUser:
		label = mb.Theme.UserLabel.Render(mb.Message.Role.DisplayName())
		block = mb.Theme.UserBlock
	default:
		label = mb.Theme.CoachLabel.Render(mb.Message.Role.DisplayName())
	}

	header := label
	if mb.ShowTimestamps {
		header += "  " + mb.Theme.Timestamp.Render(mb.Message.Timestamp.Format("15:04"))
	}

	body := mb.Body
	if mb.Message.IsStreaming {
		if body == "" {
			body = mb.Theme.ThinkingText.Render("thinking...")
		} else {
			body += mb.Theme.StreamingCursor.Render(StreamingCursor)
		}
	}

	return header + "\n" + block.Render(body)
}

// =============================================================================
// RELATIVE TIME
// =============================================================================

// RelativeTime formats a timestamp the way the sidebar shows session age.
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "min")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return t.Format("Jan 2")
	}
}

func plural(n int, unit string) string {
	s := strconv.Itoa(n) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s + " ago"
}
