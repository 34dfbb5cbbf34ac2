// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coach-tui/internal/config"
	"github.com/jeranaias/coach-tui/internal/controller"
	"github.com/jeranaias/coach-tui/internal/render"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
)

// sidebarWidth is the fixed column width of the session list.
const sidebarWidth = 26

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streaming reply
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. All conversation state
// lives in the controller; this model owns presentation state only.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	ctrl     *controller.Controller
	exchange *controller.Exchange

	// Rendering
	renderer *render.Renderer
	gate     *renderGate

	// UI options
	ui config.UIConfig

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Sidebar
	showSidebar bool
}

// New creates a new chat model around an initialized controller.
func New(ctrl *controller.Controller, theme *styles.Theme, ui config.UIConfig) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask your coach..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 30,
	}
	sp.Style = theme.Spinner

	m := Model{
		state:       StateReady,
		theme:       theme,
		ctrl:        ctrl,
		renderer:    render.New(76),
		gate:        newRenderGate(30),
		ui:          ui,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		keyMap:      DefaultKeyMap(),
		showSidebar: true,
	}

	m.refreshTranscript(true)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Streaming reports whether a reply is currently arriving.
func (m Model) Streaming() bool {
	return m.state == StateStreaming
}
