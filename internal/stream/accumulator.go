// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream implements accumulation of a fragmented model reply into a
// converging message value.
package stream

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/coach-tui/internal/genai"
	"github.com/jeranaias/coach-tui/internal/model"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the fully-accumulated state of the reply after processing the
// fragments received so far. Snapshots are whole values, not deltas, so a
// consumer may apply last-snapshot-wins and never miss content.
type Snapshot struct {
	// Message is the accumulated reply. IsStreaming is true on every
	// intermediate snapshot and false on the terminal one.
	Message model.Message

	// Err is set on the terminal snapshot of a failed stream. When Err is
	// non-nil the Message holds whatever partial content had accumulated;
	// the caller decides its fate.
	Err error
}

// Terminal reports whether this snapshot ends the exchange.
func (s Snapshot) Terminal() bool {
	return s.Err != nil || !s.Message.IsStreaming
}

// =============================================================================
// ACCUMULATOR
// =============================================================================

// Accumulator drives one in-flight exchange: it consumes the transport's
// fragment sequence and publishes a snapshot per fragment.
//
// An Accumulator is single-use. Open one per exchange with New and call Run
// exactly once; the snapshot channel closes after the terminal snapshot.
type Accumulator struct {
	transport Transport
}

// Transport is the narrow contract the accumulator needs from the chat API
// client.
type Transport interface {
	StreamChat(ctx context.Context, history genai.History, text string) <-chan genai.Fragment
}

// New creates an accumulator over a transport.
func New(transport Transport) *Accumulator {
	return &Accumulator{transport: transport}
}

// Run opens a transport stream for userText against the given context and
// returns the snapshot sequence.
//
// Accumulation rules:
//   - Content is the concatenation of every TextDelta in arrival order,
//     starting from the empty string.
//   - Sources form an order-preserving set keyed by URI: a source whose URI
//     has already been seen in this reply is dropped, all others append in
//     first-appearance order. The field stays nil until the first source.
//
// Exactly one terminal snapshot is produced: either the finalized message
// (IsStreaming=false) on normal completion, or a snapshot with Err set when
// the transport fails. No retry, no backpressure: fragments are consumed as
// fast as the transport produces them.
func (a *Accumulator) Run(ctx context.Context, history genai.History, userText string) <-chan Snapshot {
	out := make(chan Snapshot)

	go func() {
		defer close(out)

		draft := model.NewModelMessage()
		var content strings.Builder
		seenURIs := make(map[string]struct{})

		publish := func(snap Snapshot) bool {
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for frag := range a.transport.StreamChat(ctx, history, userText) {
			if frag.Err != nil {
				log.Warn().Err(frag.Err).Int("accumulated_bytes", content.Len()).Msg("stream failed")
				draft.Content = content.String()
				publish(Snapshot{Message: draft.Clone(), Err: frag.Err})
				return
			}

			content.WriteString(frag.TextDelta)
			draft.Content = content.String()

			for _, src := range frag.Sources {
				if _, seen := seenURIs[src.URI]; seen {
					continue
				}
				seenURIs[src.URI] = struct{}{}
				draft.Sources = append(draft.Sources, src)
			}

			if frag.Done {
				draft.IsStreaming = false
				publish(Snapshot{Message: draft.Clone()})
				return
			}

			if !publish(Snapshot{Message: draft.Clone()}) {
				return
			}
		}

		// Transport closed without a terminal fragment; only context
		// cancellation produces this. Surface it so the exchange still
		// terminates exactly once.
		if ctx.Err() != nil {
			draft.Content = content.String()
			publish(Snapshot{Message: draft.Clone(), Err: ctx.Err()})
		}
	}()

	return out
}
