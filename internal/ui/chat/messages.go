// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/identity"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// TurnDoneMsg signals that a controller operation finished and the view
// should re-render from a fresh snapshot. The controller already holds
// the outcome; the message only carries what the snapshot cannot.
type TurnDoneMsg struct {
	// Resumed is true when the turn was the automatic post-sign-in
	// retry.
	Resumed bool
}

// SignInResultMsg carries the outcome of a sign-in attempt.
type SignInResultMsg struct {
	Session *identity.Session
	Err     error
}

// SignOutDoneMsg signals that sign-out completed.
type SignOutDoneMsg struct {
	Err error
}

// AuthEventMsg carries an out-of-band auth state change, such as a
// token refresh failure signing the session out mid-conversation.
type AuthEventMsg struct {
	Event identity.Event
}

// turnTimeout bounds every conversation turn. The controller falls back
// to a graceful reply on timeout, so this only needs to be generous.
const turnTimeout = 90 * time.Second

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// startSessionCmd opens the session and fetches the greeting.
func startSessionCmd(ctrl *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		ctrl.StartSession(ctx)
		return TurnDoneMsg{}
	}
}

// sendMessageCmd sends one user turn.
func sendMessageCmd(ctrl *conversation.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		ctrl.SendMessage(ctx, text)
		return TurnDoneMsg{}
	}
}

// selectAircraftCmd confirms an aircraft selection with the backend.
func selectAircraftCmd(ctrl *conversation.Controller, aircraft api.Aircraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		ctrl.SendAircraftSelection(ctx, aircraft)
		return TurnDoneMsg{}
	}
}

// resumeAfterAuthCmd retries the gated turn once credentials exist.
func resumeAfterAuthCmd(ctrl *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		_, resumed := ctrl.ResumeAfterAuth(ctx)
		return TurnDoneMsg{Resumed: resumed}
	}
}

// signInCmd performs the sign-in against the identity provider.
func signInCmd(svc *identity.Service, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		session, err := svc.SignIn(ctx, email, password)
		return SignInResultMsg{Session: session, Err: err}
	}
}

// listenAuthEventsCmd waits for the next auth state change. Re-issued
// from Update after each received event.
func listenAuthEventsCmd(events <-chan identity.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return AuthEventMsg{Event: <-events}
	}
}

// signOutCmd clears the identity session.
func signOutCmd(svc *identity.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return SignOutDoneMsg{Err: svc.SignOut(ctx)}
	}
}
