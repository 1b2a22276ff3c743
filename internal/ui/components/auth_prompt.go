// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// SIGN-IN PROMPT - Inline form shown when a booking requires an account
// =============================================================================

// AuthField identifies the focused form field.
type AuthField int

const (
	AuthFieldEmail AuthField = iota
	AuthFieldPassword
	AuthFieldSubmit
	AuthFieldCancel
)

// AuthSubmitMsg is emitted when the visitor submits the form.
type AuthSubmitMsg struct {
	Email    string
	Password string
}

// AuthCancelMsg is emitted when the visitor dismisses the form. The
// conversation continues anonymously.
type AuthCancelMsg struct{}

// AuthPrompt is the inline sign-in form. It never stores the password
// beyond the submit message.
type AuthPrompt struct {
	email    textinput.Model
	password textinput.Model
	focus    AuthField
	width    int
	errText  string
	busy     bool
	theme    *styles.Theme
}

// NewAuthPrompt creates the sign-in form.
func NewAuthPrompt(theme *styles.Theme) *AuthPrompt {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Width = 38
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 38
	password.Prompt = ""
	// SECURITY: mask the password as it is typed
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return &AuthPrompt{
		email:    email,
		password: password,
		focus:    AuthFieldEmail,
		width:    60,
		theme:    theme,
	}
}

// Open resets the form and focuses the email field. A prefill email
// skips straight to the password.
func (p *AuthPrompt) Open(prefillEmail string) tea.Cmd {
	p.errText = ""
	p.busy = false
	p.password.Reset()
	if prefillEmail != "" {
		p.email.SetValue(prefillEmail)
		return p.setFocus(AuthFieldPassword)
	}
	p.email.Reset()
	return p.setFocus(AuthFieldEmail)
}

// SetWidth sets the render width.
func (p *AuthPrompt) SetWidth(width int) {
	p.width = width
	fieldWidth := width - 22
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	p.email.Width = fieldWidth
	p.password.Width = fieldWidth
}

// SetError shows a failure line and re-enables the form.
func (p *AuthPrompt) SetError(msg string) {
	p.errText = msg
	p.busy = false
}

// SetBusy disables input while the sign-in request is in flight.
func (p *AuthPrompt) SetBusy(busy bool) {
	p.busy = busy
}

// Busy reports whether a sign-in request is in flight.
func (p *AuthPrompt) Busy() bool {
	return p.busy
}

// Update handles key events while the form is visible.
func (p *AuthPrompt) Update(msg tea.Msg) (tea.Cmd, tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p.updateFields(msg), nil
	}
	if p.busy {
		return nil, nil
	}

	switch key.String() {
	case "esc":
		return nil, AuthCancelMsg{}

	case "tab", "down":
		return p.setFocus(p.nextField(1)), nil

	case "shift+tab", "up":
		return p.setFocus(p.nextField(-1)), nil

	case "enter":
		switch p.focus {
		case AuthFieldEmail:
			return p.setFocus(AuthFieldPassword), nil
		case AuthFieldCancel:
			return nil, AuthCancelMsg{}
		default:
			return p.submit()
		}
	}

	return p.updateFields(msg), nil
}

func (p *AuthPrompt) submit() (tea.Cmd, tea.Msg) {
	email := strings.TrimSpace(p.email.Value())
	password := p.password.Value()

	if email == "" || !strings.Contains(email, "@") {
		p.errText = "Enter a valid email address."
		return p.setFocus(AuthFieldEmail), nil
	}
	if password == "" {
		p.errText = "Enter your password."
		return p.setFocus(AuthFieldPassword), nil
	}

	p.errText = ""
	p.busy = true
	return nil, AuthSubmitMsg{Email: email, Password: password}
}

func (p *AuthPrompt) nextField(dir int) AuthField {
	const count = 4
	return AuthField((int(p.focus) + dir + count) % count)
}

func (p *AuthPrompt) setFocus(field AuthField) tea.Cmd {
	p.focus = field
	p.email.Blur()
	p.password.Blur()
	switch field {
	case AuthFieldEmail:
		return p.email.Focus()
	case AuthFieldPassword:
		return p.password.Focus()
	}
	return nil
}

func (p *AuthPrompt) updateFields(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case AuthFieldEmail:
		p.email, cmd = p.email.Update(msg)
	case AuthFieldPassword:
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

// View renders the sign-in form.
func (p *AuthPrompt) View() string {
	var sb strings.Builder

	sb.WriteString(p.theme.AuthTitle.Render("Sign in to confirm your booking"))
	sb.WriteString("\n")
	sb.WriteString(p.theme.AuthLabel.Render("Your itinerary is kept; we resume right where you left off."))
	sb.WriteString("\n\n")

	sb.WriteString(p.renderField("Email", p.email.View(), p.focus == AuthFieldEmail))
	sb.WriteString("\n")
	sb.WriteString(p.renderField("Password", p.password.View(), p.focus == AuthFieldPassword))
	sb.WriteString("\n\n")

	if p.busy {
		sb.WriteString(p.theme.AuthLabel.Render("Signing in..."))
	} else {
		submit := p.theme.AuthButton.Render("Sign in")
		if p.focus == AuthFieldSubmit {
			submit = p.theme.AuthButtonActive.Render("Sign in")
		}
		cancel := p.theme.AuthButton.Render("Not now")
		if p.focus == AuthFieldCancel {
			cancel = p.theme.AuthButtonActive.Render("Not now")
		}
		sb.WriteString(submit + cancel)
	}

	if p.errText != "" {
		sb.WriteString("\n\n")
		sb.WriteString(p.theme.AuthError.Render(styles.StatusIndicators.Error + " " + p.errText))
	}

	sb.WriteString("\n")
	sb.WriteString(p.theme.CardHint.Render("tab: next field  enter: submit  esc: continue without signing in"))

	boxWidth := minInt(p.width-2, 64)
	return p.theme.AuthBox.Width(boxWidth).Render(sb.String())
}

func (p *AuthPrompt) renderField(label, field string, focused bool) string {
	labelStyle := p.theme.AuthLabel
	if focused {
		labelStyle = p.theme.AuthTitle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(10).Render(label),
		p.theme.AuthValue.Render(field),
	)
}
