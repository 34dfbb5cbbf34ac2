// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
package render

import (
	"strings"
	"testing"
)

// =============================================================================
// FENCE SCANNER TESTS
// =============================================================================

func TestSplitPlainProse(t *testing.T) {
	segs := Split("just some **markdown** text")

	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != KindMarkdown {
		t.Errorf("kind = %v, want markdown", segs[0].Kind)
	}
}

func TestSplitProseCodeProse(t *testing.T) {
	content := "before\n```go\nfmt.Println(\"hi\")\n```\nafter"
	segs := Split(content)

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].Kind != KindMarkdown || segs[0].Text != "before" {
		t.Errorf("segment 0 = %+v", segs[0])
	}
	if segs[1].Kind != KindCode || segs[1].Lang != "go" {
		t.Errorf("segment 1 = %+v", segs[1])
	}
	if !strings.Contains(segs[1].Code, "Println") {
		t.Errorf("code body = %q", segs[1].Code)
	}
	if segs[2].Kind != KindMarkdown || segs[2].Text != "after" {
		t.Errorf("segment 2 = %+v", segs[2])
	}
}

func TestSplitChartTag(t *testing.T) {
	content := "```json-chart\n" +
		`{"type":"bar","xKey":"month","series":["km"],"data":[{"month":"Jan","km":42}]}` +
		"\n```"
	segs := Split(content)

	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != KindChart {
		t.Fatalf("kind = %v, want chart", segs[0].Kind)
	}
	if segs[0].ChartErr != nil {
		t.Fatalf("chart parse failed: %v", segs[0].ChartErr)
	}
	if segs[0].Chart.XKey != "month" || len(segs[0].Chart.Data) != 1 {
		t.Errorf("chart spec = %+v", segs[0].Chart)
	}
}

func TestSplitMalformedChartYieldsErrorSegment(t *testing.T) {
	segs := Split("```json-chart\n{not valid json\n```")

	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != KindChart {
		t.Fatalf("malformed chart must stay a chart segment, got %v", segs[0].Kind)
	}
	if segs[0].ChartErr == nil {
		t.Error("want parse error recorded on the segment")
	}
	if segs[0].Chart != nil {
		t.Error("spec and error must not both be set")
	}
}

func TestSplitUnclosedFenceStillEmitted(t *testing.T) {
	segs := Split("intro\n```python\nprint('streaming')")

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[1].Kind != KindCode || segs[1].Lang != "python" {
		t.Errorf("unclosed fence segment = %+v", segs[1])
	}
}

func TestSplitUnknownTagIsCode(t *testing.T) {
	segs := Split("```whatever-lang\nstuff\n```")

	if len(segs) != 1 || segs[0].Kind != KindCode {
		t.Fatalf("unknown tag must fall back to code, got %+v", segs)
	}
	if segs[0].Lang != "whatever-lang" {
		t.Errorf("lang = %q", segs[0].Lang)
	}
}

func TestSplitEmptyContent(t *testing.T) {
	if segs := Split(""); len(segs) != 0 {
		t.Errorf("empty content should yield no segments, got %+v", segs)
	}
}
