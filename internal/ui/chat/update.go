// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/commands"
	"github.com/mohanraghava-higherself/jetayuV1/internal/identity"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/components"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// Update routes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ToastTickMsg:
		if len(m.toasts.TickToasts()) > 0 {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case TurnDoneMsg:
		return m, m.handleTurnDone(msg)

	case SignInResultMsg:
		return m, m.handleSignInResult(msg)

	case SignOutDoneMsg:
		m.statusBar.SetIdentity(false, "")
		m.welcome.SetIdentity(false, "")
		if msg.Err != nil {
			return m, m.notifyError("Sign-out failed: " + msg.Err.Error())
		}
		return m, m.notifyStatus("Signed out")

	case AuthEventMsg:
		return m, tea.Batch(m.handleAuthEvent(msg.Event), listenAuthEventsCmd(m.authEvents))

	// Command handler messages.
	case commands.ShowHelpMsg:
		m.overlay = OverlayHelp
		m.overlayText = m.helpText(msg.Topic)
		return m, nil

	case commands.ResetConversationMsg:
		m.ctrl.Reset()
		m.refreshFromSnapshot()
		m.showWelcome = true
		return m, tea.Batch(m.composing.Start(), startSessionCmd(m.ctrl))

	case commands.ShowAircraftMsg:
		if m.deck.Empty() {
			return m, m.notifyStatus("No aircraft suggestions yet. Tell me about your trip first.")
		}
		m.detail = nil
		return m, nil

	case commands.SelectAircraftMsg:
		return m, m.selectByName(msg.Name)

	case commands.PreviewAircraftMsg:
		aircraft := m.deck.FindByName(msg.Name)
		if aircraft == nil {
			return m, m.notifyError("No suggestion named " + strings.TrimSpace(msg.Name))
		}
		m.ctrl.Preview(*aircraft)
		m.refreshFromSnapshot()
		return m, nil

	case commands.AircraftBackMsg:
		if !m.ctrl.ShowPreviousAircraft() {
			return m, m.notifyStatus("No earlier suggestions to return to.")
		}
		m.refreshFromSnapshot()
		return m, nil

	case commands.ShowLoginMsg:
		return m, m.openAuthPrompt(msg.Email)

	case commands.SignedOutMsg:
		m.statusBar.SetIdentity(false, "")
		m.welcome.SetIdentity(false, "")
		if msg.Error != nil {
			return m, m.notifyError("Sign-out failed: " + msg.Error.Error())
		}
		return m, m.notifyStatus("Signed out")

	case commands.WhoamiMsg:
		if !msg.SignedIn {
			return m, m.notifyStatus("Browsing as a guest. Sign in with /login.")
		}
		label := msg.Email
		if msg.FullName != "" {
			label = msg.FullName + " <" + msg.Email + ">"
		}
		return m, m.notifyStatus("Signed in as " + label + " (" + msg.Remaining.Round(time.Second).String() + " left)")

	case commands.ExportConversationMsg:
		// Reached only when the handler had no conversation access.
		return m, m.notifyError("Nothing to export yet.")

	case commands.ExportCompleteMsg:
		if msg.Error != nil {
			return m, m.notifyError("Export failed: " + msg.Error.Error())
		}
		return m, m.notifySuccess("Transcript saved to " + msg.Path)

	case commands.StatsMsg:
		if msg.Error != nil {
			return m, m.notifyError("Could not read metrics: " + msg.Error.Error())
		}
		m.overlay = OverlayText
		m.overlayText = m.statsText(msg)
		return m, nil

	case commands.ShowConfigMsg:
		m.overlay = OverlayText
		m.overlayText = m.configText(msg.Key)
		return m, nil

	case commands.ConfigUpdateMsg:
		if msg.Error != nil {
			return m, m.notifyError("Config: " + msg.Error.Error())
		}
		return m, m.notifySuccess(fmt.Sprintf("%s = %v", msg.Key, msg.Value))

	case commands.ThemeMsg:
		m.cfg.UI.Theme = msg.Name
		styles.ApplyPreference(msg.Name)
		return m, m.notifySuccess("Theme set to " + msg.Name)

	case commands.ErrorMsg:
		text := msg.Message
		if msg.Tip != "" {
			text += " " + msg.Tip
		}
		return m, m.notifyError(text)

	case commands.SystemMessageMsg:
		return m, m.notifyStatus(msg.Content)
	}

	// Component ticks (spinner frames, cursor blink).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.composing, cmd = m.composing.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, m.input.Update(msg))
	return m, tea.Batch(cmds...)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.header.SetCompact(msg.Height < 24)
	m.welcome.SetSize(msg.Width, msg.Height)
	m.messageList.SetWidth(msg.Width - 4)
	m.deck.SetWidth(msg.Width - 2)
	m.authPrompt.SetWidth(msg.Width - 4)
	m.input.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.completions.SetWidth(msg.Width)

	m.viewport.Width = msg.Width - 2
	m.viewport.Height = m.conversationHeight()
	m.updateViewportContent()
	return nil
}

// conversationHeight is the viewport height left after the fixed chrome.
func (m *Model) conversationHeight() int {
	chrome := 6 // header, input, status bar
	if m.height < 24 {
		chrome = 4 // compact header
	}
	deckHeight := 0
	if !m.deck.Empty() || m.detail != nil {
		deckHeight = 9
	}
	h := m.height - chrome - deckHeight
	if h < 3 {
		h = 3
	}
	return h
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always wins.
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	// An open overlay swallows keys until dismissed.
	if m.overlay != OverlayNone {
		if key.Matches(msg, m.keyMap.Dismiss) || msg.String() == "enter" || msg.String() == "q" {
			m.overlay = OverlayNone
			m.overlayText = ""
		}
		return m, nil
	}

	// The sign-in form has its own focus model.
	if m.showAuth {
		return m.handleAuthKey(msg)
	}

	// Completion popup navigation.
	if m.completions.Visible() {
		switch {
		case key.Matches(msg, m.keyMap.ScrollDown):
			m.completions.Next()
			return m, nil
		case key.Matches(msg, m.keyMap.ScrollUp):
			m.completions.Prev()
			return m, nil
		case key.Matches(msg, m.keyMap.NextCard): // tab accepts
			if sel := m.completions.Selected(); sel != nil {
				m.input.SetValue(sel.Value + " ")
				m.completions.Hide()
			}
			return m, nil
		case key.Matches(msg, m.keyMap.Dismiss):
			m.completions.Hide()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keyMap.Login):
		return m, m.openAuthPrompt("")

	case key.Matches(msg, m.keyMap.Export):
		return m, m.runCommand("/export")

	case key.Matches(msg, m.keyMap.NewConvo):
		return m.Update(commands.ResetConversationMsg{})

	case key.Matches(msg, m.keyMap.NextCard):
		if !m.deck.Empty() {
			m.deck.FocusNext()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevCard):
		if !m.deck.Empty() {
			m.deck.FocusPrev()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Details):
		if focused := m.deck.Focused(); focused != nil {
			m.ctrl.Preview(*focused)
			m.refreshFromSnapshot()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.CardsBack):
		if m.ctrl.ShowPreviousAircraft() {
			m.refreshFromSnapshot()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		return m, m.handleDismiss()

	case key.Matches(msg, m.keyMap.Submit):
		return m, m.handleSubmit()
	}

	// Everything else goes to the input, then completion refresh.
	cmd := m.input.Update(msg)
	m.refreshCompletions()
	return m, cmd
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, out := m.authPrompt.Update(msg)
	switch out := out.(type) {
	case components.AuthSubmitMsg:
		if m.identity == nil || !m.identity.IsConfigured() {
			m.showAuth = false
			return m, m.notifyError("Sign-in is not configured. Set identity.url in /config.")
		}
		return m, signInCmd(m.identity, out.Email, out.Password)

	case components.AuthCancelMsg:
		m.showAuth = false
		m.ctrl.DismissAuthPrompt()
		m.refreshFromSnapshot()
		return m, m.notifyStatus("Continuing as a guest. Sign in any time with /login.")
	}
	return m, cmd
}

func (m *Model) handleDismiss() tea.Cmd {
	switch {
	case m.detail != nil:
		m.ctrl.ClosePreview()
		m.refreshFromSnapshot()
	case m.input.Value() != "":
		m.input.Reset()
		m.completions.Hide()
	}
	return nil
}

func (m *Model) handleSubmit() tea.Cmd {
	if m.snap.Loading {
		return nil
	}

	text := strings.TrimSpace(m.input.Value())

	// Empty submit acts on the visible aircraft.
	if text == "" {
		if m.detail != nil {
			aircraft := *m.detail
			m.ctrl.ClosePreview()
			m.refreshFromSnapshot()
			return tea.Batch(m.composing.Start(), selectAircraftCmd(m.ctrl, aircraft))
		}
		if focused := m.deck.Focused(); focused != nil {
			return tea.Batch(m.composing.Start(), selectAircraftCmd(m.ctrl, *focused))
		}
		return nil
	}

	m.input.Reset()
	m.completions.Hide()

	if commands.IsCommand(text) {
		return m.runCommand(text)
	}

	m.showWelcome = false
	return tea.Batch(m.composing.Start(), sendMessageCmd(m.ctrl, text))
}

// runCommand parses and executes a slash command line.
func (m *Model) runCommand(line string) tea.Cmd {
	result := m.parser.Parse(line)
	if result.Command == nil {
		return m.notifyError("Unknown command " + result.CommandName + ". Try /help.")
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		return m.notifyError(err.Error())
	}
	return result.Command.Handler(m.cmdCtx, result.Args)
}

func (m *Model) refreshCompletions() {
	value := m.input.Value()
	if commands.IsCommand(value) {
		m.completions.SetItems(m.completer.Complete(value))
	} else {
		m.completions.Hide()
	}
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

func (m *Model) handleTurnDone(msg TurnDoneMsg) tea.Cmd {
	m.refreshFromSnapshot()

	var cmds []tea.Cmd
	if !m.snap.Loading {
		m.composing.Stop()
	}

	// A pending gate opens the sign-in form, unless the visitor already
	// dismissed it this turn.
	if m.ctrl.GateIsPending() && !m.showAuth {
		cmds = append(cmds, m.openAuthPrompt(""))
	}

	if msg.Resumed {
		cmds = append(cmds, m.notifyStatus("Picking up right where we left off."))
	}

	return tea.Batch(cmds...)
}

func (m *Model) handleSignInResult(msg SignInResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.authPrompt.SetError(sanitizeAuthError(msg.Err))
		return nil
	}

	m.showAuth = false
	email := ""
	if msg.Session != nil {
		email = msg.Session.Email
	}
	m.statusBar.SetIdentity(true, email)
	m.welcome.SetIdentity(true, email)

	cmds := []tea.Cmd{m.notifySuccess("Signed in as " + email)}

	// Resume the gated turn without re-typing.
	if m.ctrl.GateIsPending() {
		cmds = append(cmds, m.composing.Start(), resumeAfterAuthCmd(m.ctrl))
	}
	return tea.Batch(cmds...)
}

// handleAuthEvent reacts to auth changes that did not come through the
// in-view prompt. Sign-in events from the prompt arrive here too; the
// identity setters are idempotent and the gate resume is guarded, so
// the duplicate is harmless.
func (m *Model) handleAuthEvent(e identity.Event) tea.Cmd {
	switch e.Type {
	case identity.EventSignedIn:
		email := ""
		if e.Session != nil {
			email = e.Session.Email
		}
		m.statusBar.SetIdentity(true, email)
		m.welcome.SetIdentity(true, email)
		if m.ctrl.GateIsPending() {
			return tea.Batch(m.composing.Start(), resumeAfterAuthCmd(m.ctrl))
		}
	case identity.EventSignedOut:
		m.statusBar.SetIdentity(false, "")
		m.welcome.SetIdentity(false, "")
		return m.notifyStatus("Your session ended. Sign in again with ctrl+l.")
	}
	return nil
}

func (m *Model) openAuthPrompt(prefill string) tea.Cmd {
	m.showAuth = true
	if prefill == "" {
		prefill = m.signedInEmail()
	}
	return m.authPrompt.Open(prefill)
}

// sanitizeAuthError keeps provider errors short and presentable.
func sanitizeAuthError(err error) string {
	text := err.Error()
	if len(text) > 120 {
		text = text[:117] + "..."
	}
	return text
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (m *Model) notifyError(text string) tea.Cmd {
	m.toasts.AddError(text)
	return components.ToastTickCmd()
}

func (m *Model) notifyStatus(text string) tea.Cmd {
	m.toasts.AddStatus(text)
	return components.ToastTickCmd()
}

func (m *Model) notifySuccess(text string) tea.Cmd {
	m.toasts.AddSuccess(text)
	return components.ToastTickCmd()
}

// =============================================================================
// SELECTION BY NAME
// =============================================================================

func (m *Model) selectByName(name string) tea.Cmd {
	aircraft := m.deck.FindByName(name)
	if aircraft == nil {
		if m.deck.Empty() {
			return m.notifyError("No aircraft suggestions to choose from yet.")
		}
		return m.notifyError("No suggestion named " + strings.TrimSpace(name) + ". Try /aircraft.")
	}
	return tea.Batch(m.composing.Start(), selectAircraftCmd(m.ctrl, *aircraft))
}
