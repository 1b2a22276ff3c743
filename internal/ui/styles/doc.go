// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Jetayu TUI.

This package defines the complete color palette, typography, and animation
system used throughout the application. All colors use Lip Gloss AdaptiveColor
for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Gold - Primary accent for concierge messages and selections
  - Champagne - Secondary accent for headers and highlights
  - Sapphire - User highlights, commands, and interactive elements
  - Emerald - Success states and confirmed bookings
  - Amber - Warnings and pending sign-in
  - Rose - Errors and critical alerts

## Semantic Colors

Message bubbles and aircraft cards use semantic color tokens:

	UserBubbleBg      - Background for traveler messages
	UserBubbleFg      - Text color for traveler messages
	ConciergeBubbleBg - Background for concierge messages
	ConciergeBubbleFg - Text color for concierge messages
	CardBg            - Background for aircraft suggestion cards
	CardPriceColor    - Price band accent on cards

## Surface Colors

Layered surface system with a deep navy base in dark terminals:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Borders, separators, popups

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text (warm ivory in dark terminals)
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

ApplyPreference forces the light or dark palette when the user picks an
explicit theme instead of "auto":

	styles.ApplyPreference(cfg.UI.Theme)

# Animation System (animations.go)

Pre-defined spinner styles:

	DotsSpinner   - Three-dot animation shown while the concierge composes
	LineSpinner   - Simple line rotation
	RunwaySpinner - Sweeping marker for longer waits

Status indicators with ASCII shapes for colorblind accessibility:

	StatusIndicators.Success - [OK]
	StatusIndicators.Error   - [X]
	StatusIndicators.Warning - [!]
	StatusIndicators.Info    - [i]

# Usage Example

	import "github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"

	// Use adaptive colors
	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Use theme for runtime detection
	theme := styles.NewTheme()
	card := theme.CardFocused.Render(content)

	// Use spinner configuration
	spinner := styles.DotsSpinner
	frame := spinner.FrameAt(time.Now())
*/
package styles
