// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// STATUS BAR - Session, sign-in, and itinerary progress at a glance
// =============================================================================

// Itinerary fields the lead qualification asks for, in display order.
var leadFields = []string{"route", "date", "passengers", "aircraft", "contact"}

// StatusBar summarizes the conversation state along the bottom edge.
type StatusBar struct {
	width int
	theme *styles.Theme

	sessionActive bool
	loading       bool
	gate          conversation.GateState
	signedIn      bool
	email         string
	lead          api.LeadState
	selection     conversation.Selection
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{width: 80, theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetSnapshot updates the conversation-derived segments.
func (s *StatusBar) SetSnapshot(snap conversation.Snapshot) {
	s.sessionActive = snap.SessionID != ""
	s.loading = snap.Loading
	s.gate = snap.Gate
	s.lead = snap.Lead
	s.selection = snap.Selection
}

// SetIdentity updates the sign-in segment.
func (s *StatusBar) SetIdentity(signedIn bool, email string) {
	s.signedIn = signedIn
	s.email = email
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := strings.Join(s.leftSegments(), "  ")
	right := strings.Join(s.rightSegments(), "  ")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

func (s *StatusBar) leftSegments() []string {
	var segs []string

	switch {
	case s.loading:
		segs = append(segs, s.theme.AuthPending.Render(styles.StatusIndicators.Pending+" composing"))
	case s.sessionActive:
		segs = append(segs, s.theme.SignedIn.Render(styles.StatusIndicators.Active+" connected"))
	default:
		segs = append(segs, s.theme.SignedOut.Render(styles.StatusIndicators.Pending+" new conversation"))
	}

	if s.gate == conversation.GatePending {
		segs = append(segs, s.theme.AuthPending.Render(styles.StatusIndicators.Warning+" sign-in required"))
	}

	if s.selection.Kind == conversation.SelectionConfirmed && s.selection.Aircraft != nil {
		segs = append(segs, s.theme.LeadStage.Render(s.selection.Aircraft.Name))
	}

	if progress := s.itineraryProgress(); progress != "" {
		segs = append(segs, s.theme.ShortcutDesc.Render(progress))
	}

	return segs
}

func (s *StatusBar) rightSegments() []string {
	var segs []string

	if s.signedIn {
		label := s.email
		if label == "" {
			label = "signed in"
		}
		segs = append(segs, s.theme.SignedIn.Render(styles.StatusIndicators.Success+" "+label))
	} else {
		segs = append(segs, s.theme.SignedOut.Render("guest"))
	}

	segs = append(segs,
		s.theme.ShortcutKey.Render("/help")+s.theme.ShortcutDesc.Render(" commands"),
	)

	return segs
}

// itineraryProgress renders "itinerary 3/5" from the lead fields the
// backend has captured so far.
func (s *StatusBar) itineraryProgress() string {
	captured := 0
	if s.lead.RouteFrom != "" && s.lead.RouteTo != "" {
		captured++
	}
	if s.lead.DateTime != "" {
		captured++
	}
	if s.lead.Pax > 0 {
		captured++
	}
	if s.lead.SelectedAircraft != "" {
		captured++
	}
	if s.lead.Email != "" || s.lead.Name != "" {
		captured++
	}

	if captured == 0 {
		return ""
	}
	return "itinerary " + toStr(captured) + "/" + toStr(len(leadFields))
}
