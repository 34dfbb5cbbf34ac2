// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
package render

import (
	"strings"
	"testing"

	"github.com/jeranaias/coach-tui/internal/model"
)

func TestRendererContentMixedSegments(t *testing.T) {
	r := New(80)
	out := r.Content("Here is your plan:\n```json-chart\n{bad\n```\nKeep it up!")

	if !strings.Contains(out, "could not render chart") {
		t.Error("malformed chart should show the placeholder inline")
	}
	if !strings.Contains(out, "Keep it up!") {
		t.Error("prose after the bad chart must still render")
	}
}

func TestRendererMessageWithSources(t *testing.T) {
	r := New(80)

	msg := model.NewMessage(model.RoleModel, "Cited answer.")
	msg.Sources = []model.Source{
		{Title: "Training Guide", URI: "https://example.test/guide"},
	}

	out := r.Message(msg)
	if !strings.Contains(out, "Sources") {
		t.Error("sources footer missing")
	}
	if !strings.Contains(out, "Training Guide") {
		t.Error("source title missing")
	}
	if !strings.Contains(out, "https://example.test/guide") {
		t.Error("source URI missing")
	}
}

func TestRendererMessageWithoutSourcesHasNoFooter(t *testing.T) {
	r := New(80)
	out := r.Message(model.NewMessage(model.RoleModel, "Plain answer."))

	if strings.Contains(out, "Sources") {
		t.Error("footer should be absent when there are no sources")
	}
}

func TestRendererSourceWithoutTitleFallsBackToURI(t *testing.T) {
	r := New(80)
	out := r.Sources([]model.Source{{URI: "https://example.test/only-uri"}})

	if !strings.Contains(out, "https://example.test/only-uri") {
		t.Errorf("URI fallback missing: %q", out)
	}
}

func TestRendererMinimumWidth(t *testing.T) {
	r := New(0)
	if r.Width() < 20 {
		t.Errorf("width = %d, want clamped minimum", r.Width())
	}
}
