// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders transcripts as Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("session: %s\n", t.SessionID))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(t.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", t.ExportedAt.Format(time.RFC3339)))
		sb.WriteString("generator: jetayu\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Jetayu Concierge Conversation\n\n")

	if e.options.IncludeMetadata {
		e.writeItinerary(&sb, t)
	}

	sb.WriteString("## Conversation\n\n")

	for i, msg := range t.Messages {
		roleLabel := e.formatRoleLabel(msg.Role)
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				roleLabel, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", roleLabel))
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n*Exported %s*\n", formatTimestamp(t.ExportedAt)))

	return []byte(sb.String()), nil
}

// writeItinerary renders the lead snapshot as a summary section. Only
// fields the visitor actually provided appear.
func (e *MarkdownExporter) writeItinerary(sb *strings.Builder, t *Transcript) {
	lead := t.Lead
	var lines []string

	if lead.RouteFrom != "" || lead.RouteTo != "" {
		lines = append(lines, fmt.Sprintf("- **Route**: %s → %s", orUnset(lead.RouteFrom), orUnset(lead.RouteTo)))
	}
	if lead.DateTime != "" {
		lines = append(lines, fmt.Sprintf("- **Date**: %s", lead.DateTime))
	}
	if lead.Pax > 0 {
		lines = append(lines, fmt.Sprintf("- **Passengers**: %d", lead.Pax))
	}
	if t.Selected != nil {
		lines = append(lines, fmt.Sprintf("- **Aircraft**: %s", t.Selected.Name))
	} else if lead.SelectedAircraft != "" {
		lines = append(lines, fmt.Sprintf("- **Aircraft**: %s", lead.SelectedAircraft))
	}
	if len(lead.SpecialRequests) > 0 {
		lines = append(lines, fmt.Sprintf("- **Special requests**: %s", strings.Join(lead.SpecialRequests, ", ")))
	}
	if lead.SubmissionState != "" {
		lines = append(lines, fmt.Sprintf("- **Status**: %s", lead.SubmissionState))
	}

	if len(lines) == 0 {
		return
	}

	sb.WriteString("## Itinerary\n\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n---\n\n")
}

// formatRoleLabel returns the display label for a message role.
func (e *MarkdownExporter) formatRoleLabel(role conversation.Role) string {
	switch role {
	case conversation.RoleUser:
		return "You"
	case conversation.RoleAssistant:
		return "Concierge"
	default:
		return string(role)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}
