// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/commands"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// COMPLETION POPUP - Slash-command completion list
// =============================================================================

// maxVisibleCompletions caps the popup height.
const maxVisibleCompletions = 8

// CompletionPopup renders completion suggestions above the input.
type CompletionPopup struct {
	items    []commands.Completion
	selected int
	width    int
	theme    *styles.Theme
}

// NewCompletionPopup creates an empty popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{width: 60, theme: theme}
}

// SetItems replaces the suggestions and resets the selection.
func (c *CompletionPopup) SetItems(items []commands.Completion) {
	c.items = items
	c.selected = 0
}

// SetWidth sets the render width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = width
}

// Visible reports whether the popup has anything to show.
func (c *CompletionPopup) Visible() bool {
	return len(c.items) > 0
}

// Hide clears the popup.
func (c *CompletionPopup) Hide() {
	c.items = nil
	c.selected = 0
}

// Next moves the selection down, wrapping around.
func (c *CompletionPopup) Next() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.items)
}

// Prev moves the selection up, wrapping around.
func (c *CompletionPopup) Prev() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
}

// Selected returns the highlighted suggestion, or nil when hidden.
func (c *CompletionPopup) Selected() *commands.Completion {
	if c.selected < 0 || c.selected >= len(c.items) {
		return nil
	}
	item := c.items[c.selected]
	return &item
}

// View renders the popup.
func (c *CompletionPopup) View() string {
	if len(c.items) == 0 {
		return ""
	}

	// Keep the selection visible within the window.
	start := 0
	if c.selected >= maxVisibleCompletions {
		start = c.selected - maxVisibleCompletions + 1
	}
	end := minInt(start+maxVisibleCompletions, len(c.items))

	displayWidth := 0
	for _, item := range c.items[start:end] {
		if w := lipgloss.Width(item.Display); w > displayWidth {
			displayWidth = w
		}
	}

	var lines []string
	for i := start; i < end; i++ {
		item := c.items[i]

		display := item.Display
		if pad := displayWidth - lipgloss.Width(display); pad > 0 {
			display += strings.Repeat(" ", pad)
		}

		line := display
		if item.Description != "" {
			line += "  " + c.theme.ShortcutDesc.Render(item.Description)
		}

		if i == c.selected {
			lines = append(lines, c.theme.CompletionSelected.Render(" "+line+" "))
		} else {
			lines = append(lines, c.theme.CompletionItem.Render(" "+line+" "))
		}
	}

	if len(c.items) > maxVisibleCompletions {
		more := c.theme.ShortcutDesc.Render(
			" " + toStr(len(c.items)-maxVisibleCompletions) + " more...")
		lines = append(lines, more)
	}

	return c.theme.CompletionPopup.
		MaxWidth(c.width - 2).
		Render(strings.Join(lines, "\n"))
}
