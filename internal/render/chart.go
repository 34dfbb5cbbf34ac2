// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns message content into styled terminal output.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coach-tui/internal/ui/styles"
	"github.com/jeranaias/coach-tui/internal/util"
)

// =============================================================================
// CHART SPECIFICATION
// =============================================================================

// ChartSpec is the embedded-data contract for json-chart fenced blocks.
type ChartSpec struct {
	// Type selects the chart style: "bar", "line" or "area".
	Type string `json:"type"`
	// Title is optional.
	Title string `json:"title,omitempty"`
	// XKey names the field of each record used as the category label.
	XKey string `json:"xKey"`
	// Series names the numeric fields plotted per record.
	Series []string `json:"series"`
	// Data is the list of records.
	Data []map[string]any `json:"data"`
}

// ParseChartSpec decodes and validates a chart specification. Any failure
// is reported to the caller; nothing here panics on model output.
func ParseChartSpec(data []byte) (*ChartSpec, error) {
	var spec ChartSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("invalid chart JSON: %w", err)
	}

	switch spec.Type {
	case "bar", "line", "area":
	default:
		return nil, fmt.Errorf("unknown chart type %q", spec.Type)
	}
	if spec.XKey == "" {
		return nil, fmt.Errorf("chart is missing xKey")
	}
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("chart has no series")
	}
	if len(spec.Data) == 0 {
		return nil, fmt.Errorf("chart has no data")
	}

	return &spec, nil
}

// =============================================================================
// CHART RENDERING
// =============================================================================

var seriesColors = []lipgloss.AdaptiveColor{
	styles.Cyan,
	styles.Purple,
	styles.Emerald,
	styles.Amber,
	styles.Rose,
}

// RenderChart draws the chart as horizontal bars, one group of bars per
// record. Line and area charts collapse to the same bar form; a terminal
// transcript scrolls vertically, so horizontal bars stay readable at any
// data length.
func RenderChart(spec *ChartSpec, width int) string {
	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}

	maxVal := maxSeriesValue(spec)
	if maxVal <= 0 {
		maxVal = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var b strings.Builder

	if spec.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(spec.Title)
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	for _, record := range spec.Data {
		label := util.TruncateWidth(fmt.Sprintf("%v", record[spec.XKey]), 12)
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")

		for si, series := range spec.Series {
			val := numericValue(record[series])
			filled := int(float64(barWidth) * val / maxVal)
			if filled < 0 {
				filled = 0
			}
			if filled > barWidth {
				filled = barWidth
			}

			barStyle := lipgloss.NewStyle().Foreground(seriesColors[si%len(seriesColors)])
			emptyStyle := lipgloss.NewStyle().Foreground(styles.OverlayDim)

			bar := barStyle.Render(strings.Repeat("█", filled)) +
				emptyStyle.Render(strings.Repeat("░", barWidth-filled))
			b.WriteString(fmt.Sprintf("  %s %s\n", bar, valueStyle.Render(formatValue(val))))
		}
	}

	if len(spec.Series) > 1 {
		b.WriteString("\n")
		b.WriteString(renderLegend(spec.Series))
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderChartError renders the visible, non-fatal placeholder shown when a
// json-chart block could not be parsed. The message itself is untouched.
func RenderChartError(err error) string {
	return lipgloss.NewStyle().
		Foreground(styles.Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Rose).
		Padding(0, 1).
		Render(fmt.Sprintf("⚠ could not render chart: %v", err))
}

// renderLegend lists each series with its color swatch.
func renderLegend(series []string) string {
	parts := make([]string, 0, len(series))
	for i, name := range series {
		swatch := lipgloss.NewStyle().
			Foreground(seriesColors[i%len(seriesColors)]).
			Render("■")
		parts = append(parts, swatch+" "+name)
	}
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(strings.Join(parts, "  "))
}

// maxSeriesValue finds the largest plotted value across all records.
func maxSeriesValue(spec *ChartSpec) float64 {
	max := 0.0
	for _, record := range spec.Data {
		for _, series := range spec.Series {
			if v := numericValue(record[series]); v > max {
				max = v
			}
		}
	}
	return max
}

// numericValue coerces a JSON value to float64; non-numbers count as zero.
func numericValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

// formatValue trims trailing zeros from a plotted value.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
