// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if msg.IsStreaming {
		t.Error("user message should not be streaming")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewModelMessage(t *testing.T) {
	msg := NewModelMessage()

	if msg.Role != RoleModel {
		t.Errorf("Role = %q, want %q", msg.Role, RoleModel)
	}
	if !msg.IsStreaming {
		t.Error("placeholder should be streaming")
	}
	if msg.Content != "" {
		t.Errorf("placeholder content = %q, want empty", msg.Content)
	}
}

func TestMessageIDsUnique(t *testing.T) {
	// Two messages created back-to-back must never share an ID. The old
	// millisecond-timestamp scheme failed exactly this case.
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("duplicate ID generated: %s", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestMessageClone(t *testing.T) {
	msg := NewModelMessage()
	msg.Sources = []Source{{Title: "A", URI: "u1"}}

	clone := msg.Clone()
	clone.Sources[0].Title = "changed"

	if msg.Sources[0].Title != "A" {
		t.Error("Clone should not share the Sources slice")
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSession(t *testing.T) {
	sess := NewSession()

	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", sess.Title, DefaultTitle)
	}
	if !sess.IsEmpty() {
		t.Error("new session should be empty")
	}
	if !strings.HasPrefix(sess.ID, "sess_") {
		t.Errorf("ID should start with 'sess_', got %q", sess.ID)
	}
}

func TestSessionTitleDerivedOnce(t *testing.T) {
	sess := NewSession()

	first := NewUserMessage("What is the capital of France?")
	sess.ReplaceMessages([]Message{first})

	if sess.Title != "What is the capital of France?" {
		t.Errorf("Title = %q, want first message content", sess.Title)
	}

	// A second user message must not change the title.
	second := NewUserMessage("And of Germany?")
	sess.ReplaceMessages([]Message{first, second})

	if sess.Title != "What is the capital of France?" {
		t.Errorf("Title changed on second message: %q", sess.Title)
	}
}

func TestSessionTitleTruncation(t *testing.T) {
	sess := NewSession()

	// 45 characters: title must be the first 30 runes plus an ellipsis.
	content := strings.Repeat("a", 45)
	sess.ReplaceMessages([]Message{NewUserMessage(content)})

	want := strings.Repeat("a", 30) + "..."
	if sess.Title != want {
		t.Errorf("Title = %q, want %q", sess.Title, want)
	}
}

func TestSessionTitleMultilineCollapsed(t *testing.T) {
	sess := NewSession()
	sess.ReplaceMessages([]Message{NewUserMessage("line one\nline two")})

	if strings.Contains(sess.Title, "\n") {
		t.Errorf("Title should not contain newlines: %q", sess.Title)
	}
}

func TestReplaceMessagesUpdatesTimestamp(t *testing.T) {
	sess := NewSession()
	before := sess.UpdatedAt

	sess.ReplaceMessages([]Message{NewUserMessage("hi")})

	if sess.UpdatedAt.Before(before) {
		t.Error("UpdatedAt should not go backwards")
	}
}

func TestStreamingCount(t *testing.T) {
	sess := NewSession()
	user := NewUserMessage("hi")
	placeholder := NewModelMessage()
	sess.ReplaceMessages([]Message{user, placeholder})

	if got := sess.StreamingCount(); got != 1 {
		t.Errorf("StreamingCount = %d, want 1", got)
	}

	placeholder.IsStreaming = false
	sess.ReplaceMessages([]Message{user, placeholder})

	if got := sess.StreamingCount(); got != 0 {
		t.Errorf("StreamingCount after finalize = %d, want 0", got)
	}
}

func TestCloneMessagesIndependent(t *testing.T) {
	sess := NewSession()
	msg := NewModelMessage()
	msg.Sources = []Source{{Title: "A", URI: "u1"}}
	sess.ReplaceMessages([]Message{msg})

	clone := sess.CloneMessages()
	clone[0].Sources[0].URI = "changed"

	if sess.Messages[0].Sources[0].URI != "u1" {
		t.Error("CloneMessages should deep-copy sources")
	}
}
