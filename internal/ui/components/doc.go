// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the coach TUI: the session
// sidebar and the framed transcript message blocks. Components are pure
// renderers — they take state in and return a styled string, holding no
// state of their own.
package components
