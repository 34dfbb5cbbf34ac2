// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
package render

import "strings"

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// SegmentKind is a closed set of content block kinds. Dispatch on the fence
// language tag happens once, at split time; everything downstream switches
// on the kind and has exactly one fallback path.
type SegmentKind int

const (
	// KindMarkdown is prose outside any fence.
	KindMarkdown SegmentKind = iota
	// KindCode is a fenced code block with an optional language tag.
	KindCode
	// KindChart is a fenced block tagged json-chart; either Chart or
	// ChartErr is set, never both.
	KindChart
)

// ChartTag is the fence language tag that selects chart rendering.
const ChartTag = "json-chart"

// Segment is one block of message content.
type Segment struct {
	Kind SegmentKind

	// KindMarkdown
	Text string

	// KindCode
	Lang string
	Code string

	// KindChart
	Chart    *ChartSpec
	ChartErr error
}

// =============================================================================
// FENCE SCANNER
// =============================================================================

// Split scans content into a sequence of segments. Fences open and close on
// lines starting with three backticks; an unclosed fence at end of input is
// still emitted (a streaming message frequently ends mid-block).
func Split(content string) []Segment {
	var segments []Segment

	var prose []string
	var code []string
	var lang string
	inFence := false

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		text := strings.Join(prose, "\n")
		if strings.TrimSpace(text) != "" {
			segments = append(segments, Segment{Kind: KindMarkdown, Text: text})
		}
		prose = nil
	}

	flushFence := func() {
		body := strings.Join(code, "\n")
		if lang == ChartTag {
			spec, err := ParseChartSpec([]byte(body))
			segments = append(segments, Segment{Kind: KindChart, Chart: spec, ChartErr: err})
		} else {
			segments = append(segments, Segment{Kind: KindCode, Lang: lang, Code: body})
		}
		code = nil
		lang = ""
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			if inFence {
				flushFence()
				inFence = false
			} else {
				flushProse()
				lang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inFence = true
			}
			continue
		}

		if inFence {
			code = append(code, line)
		} else {
			prose = append(prose, line)
		}
	}

	if inFence {
		flushFence()
	} else {
		flushProse()
	}

	return segments
}
