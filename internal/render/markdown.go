// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown wraps a glamour renderer at a fixed wrap width. A nil renderer
// (initialization failure, exotic terminals) degrades to plain text.
type markdown struct {
	renderer *glamour.TermRenderer
}

func newMarkdown(wrapWidth int) *markdown {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return &markdown{}
	}
	return &markdown{renderer: r}
}

// render returns the styled markdown, or the original text when glamour is
// unavailable or fails on this input.
func (m *markdown) render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
