// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	brandGold  = lipgloss.Color("#D4AF37")
	brandIvory = lipgloss.Color("#E8E3D3")
	brandMuted = lipgloss.Color("#8A857A")
	brandGreen = lipgloss.Color("#34D399")
	brandRose  = lipgloss.Color("#FB7185")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandGold).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(brandIvory)

	mutedStyle = lipgloss.NewStyle().
			Foreground(brandMuted)

	okStyle = lipgloss.NewStyle().
		Foreground(brandGreen).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(brandRose).
			Bold(true)
)

// =============================================================================
// WIZARD MODEL
// =============================================================================

// step identifies the current wizard screen.
type step int

const (
	stepChecks step = iota
	stepBackend
	stepIdentity
	stepTheme
	stepDone
)

var themeChoices = []string{"auto", "dark", "light"}

// Wizard is the Bubble Tea model for the guided setup.
type Wizard struct {
	step   step
	width  int
	height int

	checks []checkResult

	backend  textinput.Model
	identity textinput.Model
	themeIdx int

	err     error
	written string
}

// NewWizard creates the wizard with prefilled defaults.
func NewWizard() *Wizard {
	defaults := config.Default()

	backend := textinput.New()
	backend.Placeholder = defaults.Backend.URL
	backend.CharLimit = 200
	backend.Width = 50
	backend.Focus()

	identity := textinput.New()
	identity.Placeholder = "leave empty to browse as a guest"
	identity.CharLimit = 200
	identity.Width = 50

	return &Wizard{
		checks:   runChecks(),
		backend:  backend,
		identity: identity,
	}
}

func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return w, tea.Quit
		case "enter":
			return w.advance()
		case "left", "up":
			if w.step == stepTheme {
				w.themeIdx = (w.themeIdx - 1 + len(themeChoices)) % len(themeChoices)
				return w, nil
			}
		case "right", "down", "tab":
			if w.step == stepTheme {
				w.themeIdx = (w.themeIdx + 1) % len(themeChoices)
				return w, nil
			}
		}
	}

	var cmd tea.Cmd
	switch w.step {
	case stepBackend:
		w.backend, cmd = w.backend.Update(msg)
	case stepIdentity:
		w.identity, cmd = w.identity.Update(msg)
	}
	return w, cmd
}

// advance moves to the next step, writing the config at the end.
func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	switch w.step {
	case stepChecks:
		w.step = stepBackend
	case stepBackend:
		w.step = stepIdentity
		w.identity.Focus()
	case stepIdentity:
		w.step = stepTheme
	case stepTheme:
		path, err := writeConfig(w.backend.Value(), w.identity.Value(), themeChoices[w.themeIdx])
		w.err = err
		w.written = path
		w.step = stepDone
	case stepDone:
		return w, tea.Quit
	}
	return w, nil
}

func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Jetayu setup") + "\n")

	switch w.step {
	case stepChecks:
		sb.WriteString(stepStyle.Render("Environment") + "\n\n")
		for _, c := range w.checks {
			mark := okStyle.Render("[OK]")
			if !c.ok {
				mark = failStyle.Render("[X] ")
			}
			sb.WriteString(fmt.Sprintf("  %s %-24s %s\n", mark, c.name, mutedStyle.Render(c.detail)))
		}
		sb.WriteString("\n" + mutedStyle.Render("enter: continue  esc: quit"))

	case stepBackend:
		sb.WriteString(stepStyle.Render("Concierge backend URL") + "\n\n")
		sb.WriteString("  " + w.backend.View() + "\n\n")
		sb.WriteString(mutedStyle.Render("Empty keeps the default. enter: continue"))

	case stepIdentity:
		sb.WriteString(stepStyle.Render("Sign-in provider URL (optional)") + "\n\n")
		sb.WriteString("  " + w.identity.View() + "\n\n")
		sb.WriteString(mutedStyle.Render("Needed only to confirm bookings. enter: continue"))

	case stepTheme:
		sb.WriteString(stepStyle.Render("Theme") + "\n\n  ")
		for i, name := range themeChoices {
			if i == w.themeIdx {
				sb.WriteString(okStyle.Render("[" + name + "]"))
			} else {
				sb.WriteString(mutedStyle.Render(" " + name + " "))
			}
			sb.WriteString("  ")
		}
		sb.WriteString("\n\n" + mutedStyle.Render("arrows: choose  enter: finish"))

	case stepDone:
		if w.err != nil {
			sb.WriteString(failStyle.Render("Setup failed: ") + w.err.Error() + "\n")
		} else {
			sb.WriteString(okStyle.Render("Configuration written") + "\n")
			sb.WriteString("  " + w.written + "\n\n")
			sb.WriteString(stepStyle.Render("Start chatting with: jetayu"))
		}
		sb.WriteString("\n\n" + mutedStyle.Render("enter: exit"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

// =============================================================================
// SHARED SETUP LOGIC
// =============================================================================

type checkResult struct {
	name   string
	ok     bool
	detail string
}

// runChecks gathers the environment checks shown on the first screen.
func runChecks() []checkResult {
	var results []checkResult

	dir, err := config.ConfigDir()
	if err != nil {
		results = append(results, checkResult{"Config directory", false, err.Error()})
	} else if err := config.EnsureConfigDir(); err != nil {
		results = append(results, checkResult{"Config directory", false, err.Error()})
	} else {
		results = append(results, checkResult{"Config directory", true, dir})
	}

	// The telemetry database and export files live under the config
	// directory; a full disk would fail in confusing ways later.
	if dir != "" {
		if free, err := getFreeDiskSpace(dir); err == nil {
			const minBytes = 50 << 20
			results = append(results, checkResult{
				"Disk space", free >= minBytes,
				fmt.Sprintf("%d MB free", free>>20),
			})
		}
	}

	return results
}

// writeConfig persists the chosen values on top of the defaults.
func writeConfig(backendURL, identityURL, theme string) (string, error) {
	cfg := config.Default()
	if strings.TrimSpace(backendURL) != "" {
		cfg.Backend.URL = strings.TrimSpace(backendURL)
	}
	cfg.Identity.URL = strings.TrimSpace(identityURL)
	cfg.UI.Theme = theme

	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := config.Save(cfg); err != nil {
		return "", err
	}
	return config.ConfigPathTOML()
}
