// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Coach"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citation backing part of a model reply.
// Sources are unique by URI within a message; first-seen order is preserved.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a session.
//
// While IsStreaming is true the content is append-only; once streaming
// completes the message is immutable.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Streaming state. Persisted messages always have IsStreaming=false;
	// at most one message per session may be streaming at a time.
	IsStreaming bool `json:"-"`

	// Sources is nil until the first citation arrives; it never shrinks
	// while streaming.
	Sources []Source `json:"sources,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        newID("msg"),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewModelMessage creates an empty streaming placeholder for a model reply.
func NewModelMessage() Message {
	return Message{
		ID:          newID("msg"),
		Role:        RoleModel,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// HasSources returns true if the message carries at least one citation.
func (m Message) HasSources() bool {
	return len(m.Sources) > 0
}

// Clone returns a copy with its own Sources slice, safe to publish while
// the original keeps accumulating.
func (m Message) Clone() Message {
	out := m
	if m.Sources != nil {
		out.Sources = make([]Source, len(m.Sources))
		copy(out.Sources, m.Sources)
	}
	return out
}

// newID creates a unique, collision-resistant identifier.
// The original timestamp-string scheme could collide when two messages were
// created in the same millisecond (user message + streaming placeholder).
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
