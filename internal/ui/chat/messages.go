// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat
// interface. Stream messages bridge the accumulator's snapshot channel into
// the event loop: one tea.Msg per snapshot, in order, never skipped.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coach-tui/internal/config"
	"github.com/jeranaias/coach-tui/internal/controller"
	"github.com/jeranaias/coach-tui/internal/stream"
)

// ConfigReloadedMsg carries a freshly reloaded configuration from the file
// watcher into the event loop.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamSnapshotMsg delivers one accumulator snapshot to the event loop.
type StreamSnapshotMsg struct {
	Epoch    uint64
	Snapshot stream.Snapshot
}

// StreamClosedMsg signals that an exchange's snapshot channel has closed.
type StreamClosedMsg struct {
	Epoch uint64
}

// StreamTickMsg drives the capped-rate transcript refresh while streaming.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// STREAM COMMANDS
// =============================================================================

// waitForSnapshot reads the next snapshot off an exchange's channel.
// Re-issued after every delivery so snapshots arrive one per Update cycle,
// preserving channel order.
func waitForSnapshot(ex *controller.Exchange) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ex.Snapshots
		if !ok {
			return StreamClosedMsg{Epoch: ex.Epoch}
		}
		return StreamSnapshotMsg{Epoch: ex.Epoch, Snapshot: snap}
	}
}

// streamTickCmd schedules the next transcript refresh at ~30fps.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
