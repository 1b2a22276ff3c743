// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the screen shown before the first message.
type Welcome struct {
	version  string
	signedIn bool
	email    string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetIdentity sets the sign-in line.
func (w *Welcome) SetIdentity(signedIn bool, email string) {
	w.signedIn = signedIn
	w.email = email
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = size.Width
		w.height = size.Height
	}
	return w, nil
}

// View renders the welcome screen centered in the available space.
func (w Welcome) View() string {
	var sb strings.Builder

	sb.WriteString(w.theme.WelcomeLogo.Render("J E T A Y U"))
	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Private Aviation Concierge"))
	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomeVersion.Render(w.version))
	sb.WriteString("\n\n")

	if w.signedIn {
		label := w.email
		if label == "" {
			label = "your account"
		}
		sb.WriteString(w.theme.WelcomeInfo.Render("Signed in as " + label))
	} else {
		sb.WriteString(w.theme.WelcomeInfo.Render("Browsing as a guest - sign in any time with /login"))
	}
	sb.WriteString("\n\n")

	shortcuts := []struct{ key, desc string }{
		{"enter", "send a message"},
		{"/help", "all commands"},
		{"ctrl+c", "quit"},
	}
	for _, s := range shortcuts {
		sb.WriteString(w.theme.WelcomeKey.Render(s.key))
		sb.WriteString(w.theme.WelcomeInfo.Render("  " + s.desc))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomePressKey.Render("Start typing to begin"))

	box := w.theme.WelcomeBox.Render(sb.String())

	if w.width <= 0 || w.height <= 0 {
		return box
	}
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}
