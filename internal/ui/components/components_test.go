// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the coach TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// MESSAGE BLOCK TESTS
// =============================================================================

func TestMessageBlockUserLabel(t *testing.T) {
	mb := MessageBlock{
		Message: model.NewUserMessage("hello"),
		Body:    "hello",
		Theme:   testTheme(),
	}

	out := mb.Render()
	if !strings.Contains(out, "You") {
		t.Errorf("user label missing: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("body missing: %q", out)
	}
}

func TestMessageBlockCoachLabel(t *testing.T) {
	mb := MessageBlock{
		Message: model.NewMessage(model.RoleModel, "hi"),
		Body:    "hi",
		Theme:   testTheme(),
	}

	if out := mb.Render(); !strings.Contains(out, "Coach") {
		t.Errorf("coach label missing: %q", out)
	}
}

func TestMessageBlockStreamingCursor(t *testing.T) {
	msg := model.NewModelMessage()
	msg.Content = "partial"

	mb := MessageBlock{Message: msg, Body: "partial", Theme: testTheme()}
	if out := mb.Render(); !strings.Contains(out, StreamingCursor) {
		t.Error("streaming message should show the cursor")
	}
}

func TestMessageBlockEmptyStreamingShowsThinking(t *testing.T) {
	mb := MessageBlock{Message: model.NewModelMessage(), Theme: testTheme()}
	if out := mb.Render(); !strings.Contains(out, "thinking") {
		t.Errorf("empty streaming placeholder should show thinking text: %q", out)
	}
}

func TestMessageBlockTimestampToggle(t *testing.T) {
	msg := model.NewUserMessage("x")
	msg.Timestamp = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	with := MessageBlock{Message: msg, Body: "x", ShowTimestamps: true, Theme: testTheme()}
	without := MessageBlock{Message: msg, Body: "x", Theme: testTheme()}

	if !strings.Contains(with.Render(), "09:30") {
		t.Error("timestamp missing when enabled")
	}
	if strings.Contains(without.Render(), "09:30") {
		t.Error("timestamp shown when disabled")
	}
}

// =============================================================================
// RELATIVE TIME TESTS
// =============================================================================

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-1 * time.Minute), "1 min ago"},
		{now.Add(-5 * time.Minute), "5 mins ago"},
		{now.Add(-1 * time.Hour), "1 hour ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-24 * time.Hour), "1 day ago"},
		{now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{now.Add(-30 * 24 * time.Hour), "May 16"},
	}

	for _, tt := range tests {
		if got := RelativeTime(tt.at, now); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebarHighlightsCurrent(t *testing.T) {
	a := model.NewSession()
	a.Title = "First topic"
	b := model.NewSession()
	b.Title = "Second topic"

	sb := Sidebar{
		Sessions:  []model.Session{a, b},
		CurrentID: b.ID,
		Width:     24,
		Height:    20,
		Theme:     testTheme(),
	}

	out := sb.Render()
	if !strings.Contains(out, "First topic") || !strings.Contains(out, "Second topic") {
		t.Errorf("sidebar missing session titles:\n%s", out)
	}
	if !strings.Contains(out, "Chats") {
		t.Error("sidebar title missing")
	}
}

func TestSidebarTruncatesLongTitles(t *testing.T) {
	s := model.NewSession()
	s.Title = strings.Repeat("very long title ", 10)

	sb := Sidebar{
		Sessions: []model.Session{s},
		Width:    20,
		Height:   20,
		Theme:    testTheme(),
	}

	for _, line := range strings.Split(sb.Render(), "\n") {
		if len([]rune(line)) > 200 {
			t.Errorf("unexpectedly wide sidebar line: %q", line)
		}
	}
}
