// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the coach TUI.

The package defines the color palette (colors.go) and the Theme type
(theme.go) that bundles every lipgloss style the UI needs. All colors use
Lip Gloss AdaptiveColor so light and dark terminals get appropriate
variants, and the Theme detects the terminal's color profile via termenv
at startup.

Conventions:

  - Accent colors (Purple, Cyan, Emerald, Amber, Rose) carry meaning
    consistently: purple is the coach, cyan is the user/brand, rose is
    errors.
  - Surface and Text tiers (Primary/Secondary/Muted) express hierarchy
    without hardcoding per-widget colors.
  - Widgets take their styles from a Theme value rather than building
    their own, so the palette changes in one place.
*/
package styles
