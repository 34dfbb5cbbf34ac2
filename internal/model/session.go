// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"time"

	"github.com/jeranaias/coach-tui/internal/util"
)

// TitleMaxRunes is the maximum title length derived from the first user
// message before an ellipsis is appended.
const TitleMaxRunes = 30

// DefaultTitle is the title of a session before any message arrives.
const DefaultTitle = "New Chat"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one persisted conversation thread.
//
// The message list is owned by whoever holds the session and is replaced
// wholesale on commit; there are no partial in-place updates visible to
// readers.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a new empty session with a generated ID.
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        newID("sess"),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReplaceMessages swaps in a new message list, refreshes UpdatedAt and
// derives the title if this is the transition from empty to non-empty.
// Title derivation happens exactly once per session and is never revisited.
func (s *Session) ReplaceMessages(messages []Message) {
	wasEmpty := len(s.Messages) == 0
	s.Messages = messages
	s.UpdatedAt = time.Now()

	if wasEmpty && len(messages) > 0 {
		s.deriveTitle()
	}
}

// deriveTitle sets the title from the first user message, truncated to
// TitleMaxRunes with an ellipsis marker when cut.
func (s *Session) deriveTitle() {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			s.Title = util.TruncateRunes(util.SingleLine(msg.Content), TitleMaxRunes)
			return
		}
	}
}

// StreamingCount returns the number of messages currently streaming.
// The invariant is that this is always 0 or 1.
func (s *Session) StreamingCount() int {
	n := 0
	for _, msg := range s.Messages {
		if msg.IsStreaming {
			n++
		}
	}
	return n
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, or a zero Message and false
// when the session is empty.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// CloneMessages returns a copy of the message list safe to hand to the UI
// while the controller keeps mutating its own copy.
func (s *Session) CloneMessages() []Message {
	out := make([]Message, len(s.Messages))
	for i, msg := range s.Messages {
		out[i] = msg.Clone()
	}
	return out
}
