// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements streaming render throttling. Snapshots can arrive
// far faster than a terminal can usefully repaint; every snapshot is still
// applied to conversation state, but the transcript re-render is gated to a
// capped frame rate so fast streams don't flicker or burn CPU.
package chat

import "time"

// =============================================================================
// RENDER GATE
// =============================================================================

// renderGate limits transcript refreshes to a maximum frame rate.
//
// All access happens on the Bubble Tea event loop, so no locking is needed.
// Terminal snapshots bypass the gate: the final state of a reply must never
// wait for a frame budget.
type renderGate struct {
	minInterval time.Duration
	lastRender  time.Time
	dirty       bool
}

// newRenderGate creates a gate capped at the given frames per second.
func newRenderGate(maxFPS int) *renderGate {
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}
	return &renderGate{
		minInterval: time.Second / time.Duration(maxFPS),
	}
}

// MarkDirty records that conversation state changed since the last render.
func (g *renderGate) MarkDirty() {
	g.dirty = true
}

// ShouldRender reports whether a refresh should happen now and, when it
// should, consumes the dirty flag and frame budget. Pass force=true for
// terminal snapshots and user-triggered refreshes.
func (g *renderGate) ShouldRender(force bool) bool {
	if !g.dirty && !force {
		return false
	}
	if !force && time.Since(g.lastRender) < g.minInterval {
		return false
	}
	g.dirty = false
	g.lastRender = time.Now()
	return true
}

// Dirty reports whether an unrendered state change is pending.
func (g *renderGate) Dirty() bool {
	return g.dirty
}

// Reset clears pending state, for exchange start and cancellation.
func (g *renderGate) Reset() {
	g.dirty = false
	g.lastRender = time.Time{}
}
