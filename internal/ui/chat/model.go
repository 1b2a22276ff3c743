// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/commands"
	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/export"
	"github.com/mohanraghava-higherself/jetayuV1/internal/identity"
	"github.com/mohanraghava-higherself/jetayuV1/internal/telemetry"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/components"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Overlay identifies which full-screen panel is shown over the
// conversation, if any.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayText // generic text panel (stats, config listing)
)

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Domain collaborators
	cfg      *config.Config
	ctrl     *conversation.Controller
	identity *identity.Service
	metrics  *telemetry.Store

	// Command system
	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
	cmdCtx    *commands.Context

	// UI components
	viewport    viewport.Model
	header      *components.Header
	welcome     components.Welcome
	messageList *components.MessageList
	deck        *components.AircraftDeck
	authPrompt  *components.AuthPrompt
	input       *components.InputArea
	composing   components.ComposingIndicator
	statusBar   *components.StatusBar
	toasts      *components.ToastManager
	completions *components.CompletionPopup

	// View state
	keyMap      KeyMap
	showWelcome bool
	showAuth    bool
	detail      *api.Aircraft
	overlay     Overlay
	overlayText string
	version     string

	// Auth state changes from the identity service, drained by
	// listenAuthEventsCmd.
	authEvents chan identity.Event

	// Last rendered snapshot, refreshed after every turn.
	snap conversation.Snapshot
}

// New creates the conversation view. The identity service and metrics
// store may be nil; the matching features degrade gracefully.
func New(cfg *config.Config, ctrl *conversation.Controller, ident *identity.Service, metrics *telemetry.Store) *Model {
	styles.ApplyPreference(cfg.UI.Theme)
	theme := styles.NewTheme()

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)

	exportOpts := &export.Options{
		OutputDir:         cfg.Export.Dir,
		IncludeMetadata:   true,
		IncludeTimestamps: cfg.UI.ShowTimestamps,
	}

	cmdCtx := commands.NewContext(cfg, ctrl, ident, metrics)
	cmdCtx.ExportOptions = exportOpts

	messageList := components.NewMessageList(theme)
	messageList.SetRenderMarkdown(cfg.UI.RenderMarkdown)
	messageList.SetShowTimestamps(cfg.UI.ShowTimestamps)

	deck := components.NewAircraftDeck(theme)
	deck.SetShowPricing(cfg.UI.ShowPricing)

	m := &Model{
		theme:       theme,
		cfg:         cfg,
		ctrl:        ctrl,
		identity:    ident,
		metrics:     metrics,
		registry:    registry,
		parser:      commands.NewParser(registry),
		completer:   completer,
		cmdCtx:      cmdCtx,
		viewport:    viewport.New(80, 20),
		header:      components.NewHeader(theme),
		welcome:     components.NewWelcome(theme),
		messageList: messageList,
		deck:        deck,
		authPrompt:  components.NewAuthPrompt(theme),
		input:       components.NewInputArea(theme),
		composing:   components.NewComposingIndicator(),
		statusBar:   components.NewStatusBar(theme),
		toasts:      components.NewToastManager(),
		completions: components.NewCompletionPopup(theme),
		keyMap:      DefaultKeyMap(),
		showWelcome: true,
		version:     "dev",
	}

	// Completion for /select and /details reads the live deck.
	completer.AircraftNames = deck.Names

	if ident != nil {
		if sess := ident.CurrentSession(); ident.IsSignedIn() && sess != nil {
			m.welcome.SetIdentity(true, sess.Email)
			m.statusBar.SetIdentity(true, sess.Email)
		}

		// Subscriber callbacks run on the identity service's goroutine,
		// so hand events to the Bubble Tea loop through a channel. The
		// non-blocking send drops events rather than stalling sign-in.
		m.authEvents = make(chan identity.Event, 8)
		ident.Subscribe(func(e identity.Event) {
			select {
			case m.authEvents <- e:
			default:
			}
		})
	}

	return m
}

// SetVersion sets the version string shown on the welcome screen.
func (m *Model) SetVersion(version string) {
	m.version = version
	m.welcome.SetVersion(version)
}

// Init starts the session so the greeting is waiting before the first
// keystroke.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Focus(),
		m.composing.Start(),
		startSessionCmd(m.ctrl),
		listenAuthEventsCmd(m.authEvents),
	)
}

// refreshFromSnapshot re-derives all view state from the controller.
// Called after every turn; the controller owns the truth.
func (m *Model) refreshFromSnapshot() {
	m.snap = m.ctrl.Snapshot()

	m.messageList.SetMessages(m.snap.Messages)
	if len(m.snap.Messages) > 0 {
		m.showWelcome = false
	}

	if m.snap.ShowAircraft {
		m.deck.SetAircraft(m.snap.Candidates)
	} else {
		m.deck.SetAircraft(nil)
	}
	m.deck.SetCanGoBack(m.snap.CanGoBack)

	if m.snap.Selection.Kind == conversation.SelectionConfirmed && m.snap.Selection.Aircraft != nil {
		m.deck.SetConfirmed(m.snap.Selection.Aircraft.Name)
	} else {
		m.deck.SetConfirmed("")
	}

	// Preview state mirrors the controller's selection.
	if m.snap.Selection.Kind == conversation.SelectionPreviewing {
		m.detail = m.snap.Selection.Aircraft
	} else {
		m.detail = nil
	}

	m.input.SetLocked(m.snap.Loading)
	m.statusBar.SetSnapshot(m.snap)

	m.updateViewportContent()
}

// signedInEmail returns the current account email, or "".
func (m *Model) signedInEmail() string {
	if m.identity == nil {
		return ""
	}
	if sess := m.identity.CurrentSession(); sess != nil && sess.IsValid() {
		return sess.Email
	}
	return ""
}

func (m *Model) updateViewportContent() {
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.messageList.View())
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}
