// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// HEADER - Branding chrome along the top edge
// =============================================================================

// Header renders the brand line at the top of the conversation.
type Header struct {
	width    int
	subtitle string
	compact  bool
	theme    *styles.Theme
}

// NewHeader creates the brand header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		width:    80,
		subtitle: "Private Aviation Concierge",
		theme:    theme,
	}
}

// SetWidth sets the render width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSubtitle replaces the subtitle line.
func (h *Header) SetSubtitle(subtitle string) {
	h.subtitle = subtitle
}

// SetCompact collapses the header to a single line for short terminals.
func (h *Header) SetCompact(compact bool) {
	h.compact = compact
}

// View renders the header.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render("JETAYU")

	if h.compact {
		line := brand + " " + h.theme.HeaderSubtitle.Render(h.subtitle)
		return lipgloss.NewStyle().
			Width(h.width).
			Align(lipgloss.Center).
			Render(line)
	}

	title := lipgloss.JoinVertical(lipgloss.Center,
		brand,
		h.theme.HeaderSubtitle.Render(h.subtitle),
	)

	boxWidth := minInt(h.width-2, 48)
	box := h.theme.Header.Width(boxWidth).Render(title)

	return lipgloss.NewStyle().
		Width(h.width).
		Align(lipgloss.Center).
		Render(box)
}
