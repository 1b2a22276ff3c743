// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT - Message input with character counter
// =============================================================================

// DefaultInputLimit caps a single message; the backend rejects longer
// turns anyway, so we stop the visitor at the same boundary.
const DefaultInputLimit = 2000

// InputArea is the message input with a character counter and command
// hinting.
type InputArea struct {
	input    textinput.Model
	maxChars int
	width    int
	focused  bool
	locked   bool
	theme    *styles.Theme
}

// NewInputArea creates the message input.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Where would you like to fly? (/ for commands)"
	ti.CharLimit = DefaultInputLimit
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Gold).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Gold)

	return &InputArea{
		input:    ti,
		maxChars: DefaultInputLimit,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused returns whether the input is focused.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetLocked disables typing while a reply is in flight. The input keeps
// its content so the visitor can keep composing once unlocked.
func (i *InputArea) SetLocked(locked bool) {
	i.locked = locked
}

// Locked reports whether the input is locked.
func (i *InputArea) Locked() bool {
	return i.locked
}

// SetWidth sets the input area width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetPlaceholder sets the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.input.Placeholder = placeholder
}

// Value returns the current input value.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update handles input events. Keystrokes are dropped while locked.
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	if i.locked {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return nil
		}
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the input area with the character counter.
func (i *InputArea) View() string {
	field := i.input.View()

	count := len([]rune(i.input.Value()))
	counter := toStr(count) + "/" + toStr(i.maxChars)

	counterStyle := i.theme.CharCount
	switch {
	case count >= i.maxChars:
		counterStyle = i.theme.CharCountDanger
	case count >= i.maxChars*8/10:
		counterStyle = i.theme.CharCountWarning
	}

	line := field
	if i.locked {
		line = i.theme.InputPlaceholder.Render("The concierge is replying...")
	}

	gap := i.width - lipgloss.Width(line) - lipgloss.Width(counter) - 4
	if gap < 1 {
		gap = 1
	}

	return i.theme.InputContainer.Width(i.width - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom,
			line,
			lipgloss.NewStyle().Width(gap).Render(""),
			counterStyle.Render(counter),
		),
	)
}
