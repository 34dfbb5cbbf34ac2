// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
//
// A message body is split once into a closed set of segments (markdown,
// code, chart) and each segment is rendered by its own collaborator:
// glamour for prose, chroma for code, a lipgloss bar chart for json-chart
// blocks. Rendering never mutates message state and never fails the
// message; every malformed input has a visible fallback.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coach-tui/internal/model"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
)

// Renderer renders message content at a fixed width. Rebuild it on terminal
// resize; glamour renderers bake in their wrap width.
type Renderer struct {
	width    int
	markdown *markdown
}

// New creates a renderer for the given content width.
func New(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	return &Renderer{
		width:    width,
		markdown: newMarkdown(width),
	}
}

// Width returns the renderer's content width.
func (r *Renderer) Width() int {
	return r.width
}

// Message renders a message body plus its sources footer.
func (r *Renderer) Message(msg model.Message) string {
	parts := []string{r.Content(msg.Content)}

	if msg.HasSources() {
		parts = append(parts, r.Sources(msg.Sources))
	}

	return strings.Join(parts, "\n")
}

// Content renders a content string segment by segment.
func (r *Renderer) Content(content string) string {
	segments := Split(content)
	rendered := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg.Kind {
		case KindCode:
			rendered = append(rendered, RenderCode(seg.Lang, seg.Code, r.width))
		case KindChart:
			if seg.ChartErr != nil {
				rendered = append(rendered, RenderChartError(seg.ChartErr))
			} else {
				rendered = append(rendered, RenderChart(seg.Chart, r.width))
			}
		default:
			rendered = append(rendered, r.markdown.render(seg.Text))
		}
	}

	return strings.Join(rendered, "\n")
}

// Sources renders the citation footer shown beneath a cited reply.
func (r *Renderer) Sources(sources []model.Source) string {
	headerStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	uriStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Underline(true)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Sources"))
	for i, src := range sources {
		b.WriteString("\n")
		title := src.Title
		if title == "" {
			title = src.URI
		}
		b.WriteString(itemStyle.Render(fmt.Sprintf("[%d] %s", i+1, title)))
		if src.Title != "" && src.URI != "" {
			b.WriteString("  " + uriStyle.Render(src.URI))
		}
	}
	return b.String()
}
