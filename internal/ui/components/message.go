// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer wraps a glamour renderer and rebuilds it when the
// wrap width changes. Concierge replies arrive as Markdown; traveler
// messages are always rendered verbatim.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer for the given wrap width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	return &MarkdownRenderer{width: width}
}

// Render converts Markdown to styled terminal output. On any renderer
// failure the raw text is returned so a reply is never lost.
func (r *MarkdownRenderer) Render(markdown string, width int) string {
	if width < 20 {
		width = 20
	}
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = width
	}

	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation message as a styled bubble.
type MessageBubble struct {
	Message        conversation.Message
	Width          int
	ShowTimestamp  bool
	RenderMarkdown bool

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg conversation.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the total width available to the bubble.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetMarkdown enables Markdown rendering for concierge replies. The
// renderer is shared across bubbles to avoid rebuilding glamour styles
// for every message.
func (b *MessageBubble) SetMarkdown(r *MarkdownRenderer) {
	b.markdown = r
	b.RenderMarkdown = r != nil
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUserBubble()
	}
	return b.renderConciergeBubble()
}

// ==========================================================================
// TRAVELER BUBBLE - Sapphire tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("you")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		margin.Render(header),
		margin.Render(bubble),
	)
}

// ==========================================================================
// CONCIERGE BUBBLE - Champagne tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderConciergeBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var wrapped string
	if b.RenderMarkdown && b.markdown != nil {
		wrapped = b.markdown.Render(content, maxContentWidth)
	} else {
		wrapped = wordWrap(content, maxContentWidth)
	}
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.ConciergeBubbleFg).
		Background(styles.ConciergeBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.ConciergeBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4).
		Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("concierge")
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)

	// Turn-level callouts attach below the bubble.
	if b.Message.RequiresAuth {
		cta := lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true).
			Render(styles.StatusIndicators.Warning + " Sign in to continue - press ctrl+l or type /login")
		result = lipgloss.JoinVertical(lipgloss.Left, result, cta)
	}
	if b.Message.ShowBookingCTA {
		tag := b.theme.ConfirmedTag.Render("BOOKING REQUEST CONFIRMED")
		note := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render(" Our flight desk will reach out shortly.")
		result = lipgloss.JoinVertical(lipgloss.Left, result, tag+note)
	}

	return result
}

// ==========================================================================
// HELPERS
// ==========================================================================

// renderTimestamp renders a dimmed timestamp, "12:34 PM" for today and
// "Jan 5, 12:34 PM" otherwise.
func (b *MessageBubble) renderTimestamp() string {
	if !b.ShowTimestamp || b.Message.Timestamp.IsZero() {
		return ""
	}

	ts := b.Message.Timestamp
	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}

	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render(formatted)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders the full conversation log.
type MessageList struct {
	messages       []conversation.Message
	width          int
	showTimestamps bool
	renderMarkdown bool
	theme          *styles.Theme
	markdown       *MarkdownRenderer
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		width:          80,
		showTimestamps: true,
		theme:          theme,
		markdown:       NewMarkdownRenderer(68),
	}
}

// SetMessages replaces the rendered log.
func (l *MessageList) SetMessages(messages []conversation.Message) {
	l.messages = messages
}

// SetWidth sets the render width.
func (l *MessageList) SetWidth(width int) {
	l.width = width
}

// SetShowTimestamps toggles per-message timestamps.
func (l *MessageList) SetShowTimestamps(show bool) {
	l.showTimestamps = show
}

// SetRenderMarkdown toggles Markdown rendering of concierge replies.
func (l *MessageList) SetRenderMarkdown(render bool) {
	l.renderMarkdown = render
}

// View renders all messages separated by blank lines.
func (l *MessageList) View() string {
	if len(l.messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(l.messages))
	for _, msg := range l.messages {
		bubble := NewMessageBubble(msg, l.theme)
		bubble.SetWidth(l.width)
		bubble.ShowTimestamp = l.showTimestamps
		if l.renderMarkdown && msg.IsAssistant() {
			bubble.SetMarkdown(l.markdown)
		}
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
