// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the hosted Coach chat API.
package genai

import "github.com/jeranaias/coach-tui/internal/model"

// =============================================================================
// CONVERSATION CONTEXT
// =============================================================================

// Turn is one prior exchange entry in the conversational context.
type Turn struct {
	Role model.Role `json:"role"`
	Text string     `json:"text"`
}

// History is the explicit conversational context passed to every streaming
// call. It is a plain value owned by the caller; the client itself holds no
// conversation state, so switching sessions can never corrupt an in-flight
// stream through shared context.
type History []Turn

// HistoryFromMessages rebuilds a History by replaying stored messages as
// alternating user/model turns in original order. The result is equivalent
// to the context a continuous conversation would have produced.
func HistoryFromMessages(messages []model.Message) History {
	h := make(History, 0, len(messages))
	for _, msg := range messages {
		h = append(h, Turn{Role: msg.Role, Text: msg.Content})
	}
	return h
}

// =============================================================================
// STREAM FRAGMENT
// =============================================================================

// Fragment is one incremental unit of a streamed model reply. Each fragment
// carries new information only: a text delta and any citation sources first
// reported with it. Fragments are transient and never persisted.
type Fragment struct {
	TextDelta string
	Sources   []model.Source

	// Done marks the last fragment of a normally completed stream.
	Done bool

	// Err terminates the stream abnormally. A fragment with Err set is
	// always the final one delivered.
	Err error
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the request body for the /v1/chat/stream endpoint.
type chatRequest struct {
	Model    string `json:"model"`
	System   string `json:"system,omitempty"`
	Messages []Turn `json:"messages"`
	Stream   bool   `json:"stream"`
}

// chatLine is one NDJSON line of a streaming response.
type chatLine struct {
	Text    string         `json:"text"`
	Sources []model.Source `json:"sources,omitempty"`
	Done    bool           `json:"done"`
	Error   string         `json:"error,omitempty"`
}

// apiError is the error body returned on non-200 responses.
type apiError struct {
	Error string `json:"error"`
}
