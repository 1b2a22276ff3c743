// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/commands"
	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/components"
)

// View renders the full chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Preparing your concierge..."
	}

	if m.overlay != OverlayNone {
		return m.renderOverlay()
	}

	if m.showWelcome && len(m.snap.Messages) == 0 && !m.showAuth {
		return m.welcome.View()
	}

	var sections []string

	sections = append(sections, m.header.View())
	sections = append(sections, m.viewport.View())

	if m.composing.IsActive() {
		sections = append(sections, " "+m.composing.View())
	}

	switch {
	case m.showAuth:
		sections = append(sections, m.authPrompt.View())
	case m.detail != nil:
		panel := components.NewAircraftDetail(*m.detail, m.theme)
		panel.Width = m.width
		panel.ShowPricing = m.cfg.UI.ShowPricing
		sections = append(sections, panel.View())
	case !m.deck.Empty():
		sections = append(sections, m.deck.View())
	}

	if m.completions.Visible() {
		sections = append(sections, m.completions.View())
	}

	sections = append(sections, m.input.View())
	sections = append(sections, m.statusBar.View())

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.GetToasts(), m.width)
		screen = lipgloss.JoinVertical(lipgloss.Left, stack, screen)
	}

	return screen
}

// renderOverlay draws the help or text panel over the conversation.
func (m *Model) renderOverlay() string {
	body := m.overlayText
	hint := m.theme.CardHint.Render("esc: back to the conversation")
	panel := m.theme.CompletionPopup.
		Width(minInt(m.width-4, 90)).
		Render(body + "\n\n" + hint)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// =============================================================================
// OVERLAY TEXT BUILDERS
// =============================================================================

// helpText builds the help overlay. With a topic it documents a single
// command, otherwise it lists everything grouped by category.
func (m *Model) helpText(topic string) string {
	if topic != "" {
		name := strings.TrimSpace(topic)
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		cmd := m.registry.Get(name)
		if cmd == nil {
			return "No command named " + name + ".\n\nTry /help for the full list."
		}
		var sb strings.Builder
		sb.WriteString(m.theme.AuthTitle.Render(cmd.Name) + "\n\n")
		sb.WriteString(cmd.Description + "\n")
		if cmd.Usage != "" {
			sb.WriteString("\nUsage: " + cmd.Usage + "\n")
		}
		if len(cmd.Aliases) > 0 {
			sb.WriteString("Aliases: " + strings.Join(cmd.Aliases, ", ") + "\n")
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(m.theme.AuthTitle.Render("Jetayu concierge commands") + "\n")

	grouped := m.registry.ByCategory()
	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		cmds := grouped[category]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		sb.WriteString("\n" + m.theme.AuthLabel.Render(category) + "\n")
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			sb.WriteString(fmt.Sprintf("  %-28s %s\n", usage, cmd.Description))
		}
	}

	sb.WriteString("\n" + m.theme.AuthLabel.Render("Keyboard") + "\n")
	for _, row := range m.keyMap.FullHelp() {
		for _, binding := range row {
			help := binding.Help()
			sb.WriteString(fmt.Sprintf("  %-8s %s\n", help.Key, help.Desc))
		}
	}

	return sb.String()
}

// statsText formats the local request metrics.
func (m *Model) statsText(msg commands.StatsMsg) string {
	s := msg.Stats
	if s == nil {
		return "No requests recorded yet."
	}

	var sb strings.Builder
	sb.WriteString(m.theme.AuthTitle.Render("Session metrics") + "\n\n")
	sb.WriteString(fmt.Sprintf("  Requests   %d\n", s.TotalRequests))
	sb.WriteString(fmt.Sprintf("  Failures   %d\n", s.Failures))
	sb.WriteString(fmt.Sprintf("  Avg        %s\n", s.AvgLatency.Round(1e6)))
	sb.WriteString(fmt.Sprintf("  p50        %s\n", s.P50Latency.Round(1e6)))
	sb.WriteString(fmt.Sprintf("  p95        %s\n", s.P95Latency.Round(1e6)))

	if len(s.Endpoints) > 0 {
		sb.WriteString("\n" + m.theme.AuthLabel.Render("Endpoints") + "\n")
		for _, e := range s.Endpoints {
			sb.WriteString(fmt.Sprintf("  %-32s %5d calls  %d failed\n", e.Endpoint, e.Count, e.Failures))
		}
	}
	return sb.String()
}

// configText lists configuration, or one key when given.
func (m *Model) configText(key string) string {
	var sb strings.Builder
	sb.WriteString(m.theme.AuthTitle.Render("Configuration") + "\n\n")

	keys := config.GetAllKeys()
	if key != "" {
		keys = []string{key}
	}

	for _, k := range keys {
		value, err := m.cfg.Get(k)
		if err != nil {
			sb.WriteString(fmt.Sprintf("  %-36s (unknown key)\n", k))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-36s %s\n", k, maskSecret(k, fmt.Sprintf("%v", value))))
	}

	sb.WriteString("\nChange a value with /config set <key> <value>.")
	return sb.String()
}

// maskSecret hides credential-like values in the config listing.
// SECURITY: keys and secrets never render in full.
func maskSecret(key, value string) string {
	lower := strings.ToLower(key)
	for _, marker := range []string{"key", "secret", "token", "password"} {
		if strings.Contains(lower, marker) {
			if value == "" {
				return "(not set)"
			}
			if len(value) <= 8 {
				return "********"
			}
			return value[:4] + "..." + value[len(value)-4:]
		}
	}
	return value
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
