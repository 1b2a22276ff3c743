// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/export"
	"github.com/mohanraghava-higherself/jetayuV1/internal/telemetry"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application
// state. The chat model consumes them on its update loop.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Topic string // Optional topic for specific help
}

// ResetConversationMsg triggers clearing the conversation and starting
// a new session.
type ResetConversationMsg struct{}

// ShowAircraftMsg re-opens the current aircraft suggestions.
type ShowAircraftMsg struct{}

// SelectAircraftMsg requests selection of an aircraft by name. The app
// resolves the name against the current suggestions before dispatching.
type SelectAircraftMsg struct {
	Name string
}

// PreviewAircraftMsg requests an aircraft detail preview by name.
type PreviewAircraftMsg struct {
	Name string
}

// AircraftBackMsg steps back to the previously shown aircraft list.
type AircraftBackMsg struct{}

// ShowLoginMsg opens the sign-in form.
type ShowLoginMsg struct {
	Email string // Optional prefill
}

// SignedOutMsg indicates sign-out completion.
type SignedOutMsg struct {
	Error error
}

// WhoamiMsg carries the signed-in account details for display.
type WhoamiMsg struct {
	SignedIn  bool
	Email     string
	FullName  string
	Remaining time.Duration
}

// ExportConversationMsg triggers exporting the transcript. Emitted when
// the handler lacks direct access to the conversation.
type ExportConversationMsg struct {
	Format string // "markdown" or "json"
}

// ExportCompleteMsg indicates export completion.
type ExportCompleteMsg struct {
	Path  string
	Error error
}

// StatsMsg carries local request metrics for display.
type StatsMsg struct {
	Stats *telemetry.Stats
	Error error
}

// ShowConfigMsg triggers showing configuration.
type ShowConfigMsg struct {
	Key string // Optional specific key
}

// ConfigUpdateMsg indicates a config value was updated.
type ConfigUpdateMsg struct {
	Key   string
	Value interface{}
	Error error
}

// ThemeMsg requests a theme change.
type ThemeMsg struct {
	Name string
}

// ErrorMsg indicates an error occurred.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// SystemMessageMsg adds a system notice to the chat.
type SystemMessageMsg struct {
	Content string
}

// =============================================================================
// HANDLER IMPLEMENTATIONS
// =============================================================================

// HandleHelp shows help information.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleReset starts a fresh conversation.
func HandleReset(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ResetConversationMsg{}
	}
}

// HandleAircraft re-opens the current aircraft suggestions.
func HandleAircraft(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowAircraftMsg{}
	}
}

// HandleSelect selects an aircraft by name.
func HandleSelect(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing aircraft",
				Message: "Tell me which aircraft to select.",
				Tip:     `Usage: /select "Gulfstream G650"`,
			}
		}
	}
	name := strings.Join(args, " ")
	return func() tea.Msg {
		return SelectAircraftMsg{Name: name}
	}
}

// HandleDetails previews an aircraft's details.
func HandleDetails(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing aircraft",
				Message: "Tell me which aircraft to show.",
				Tip:     `Usage: /details "Phenom 300E"`,
			}
		}
	}
	name := strings.Join(args, " ")
	return func() tea.Msg {
		return PreviewAircraftMsg{Name: name}
	}
}

// HandleBack steps back to the previously shown aircraft list.
func HandleBack(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return AircraftBackMsg{}
	}
}

// HandleLogin opens the sign-in form.
func HandleLogin(ctx *Context, args []string) tea.Cmd {
	email := ""
	if len(args) > 0 {
		email = args[0]
	}
	return func() tea.Msg {
		return ShowLoginMsg{Email: email}
	}
}

// HandleLogout signs out and clears the cached session.
func HandleLogout(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Identity == nil {
		return func() tea.Msg {
			return SignedOutMsg{}
		}
	}
	svc := ctx.Identity
	return func() tea.Msg {
		c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return SignedOutMsg{Error: svc.SignOut(c)}
	}
}

// HandleWhoami shows the signed-in account.
func HandleWhoami(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Identity == nil {
		return func() tea.Msg {
			return WhoamiMsg{SignedIn: false}
		}
	}
	svc := ctx.Identity
	return func() tea.Msg {
		sess := svc.CurrentSession()
		if sess == nil || !sess.IsValid() {
			return WhoamiMsg{SignedIn: false}
		}
		return WhoamiMsg{
			SignedIn:  true,
			Email:     sess.Email,
			FullName:  sess.FullName,
			Remaining: sess.TimeRemaining(),
		}
	}
}

// HandleExport exports the transcript.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	format := ""
	if len(args) > 0 {
		format = strings.ToLower(args[0])
		if format == "md" {
			format = "markdown"
		}
	}
	if format == "" && ctx != nil && ctx.Config != nil {
		format = ctx.Config.Export.Format
	}

	switch format {
	case "", "markdown", "json":
	default:
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Invalid export format",
				Message: fmt.Sprintf("Unknown format: %s", format),
				Tip:     "Supported formats: markdown, json",
			}
		}
	}

	// With direct access to the conversation, export here; otherwise
	// let the app fill in the transcript.
	if ctx != nil && ctx.Controller != nil {
		ctrl := ctx.Controller
		opts := ctx.ExportOptions
		return func() tea.Msg {
			snap := ctrl.Snapshot()
			if len(snap.Messages) == 0 {
				return ErrorMsg{
					Title:   "Nothing to export",
					Message: "The conversation is empty.",
				}
			}
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return ExportCompleteMsg{Error: err}
			}
			path, err := export.ExportToFile(export.FromSnapshot(snap), exporter, opts)
			return ExportCompleteMsg{Path: path, Error: err}
		}
	}

	return func() tea.Msg {
		return ExportConversationMsg{Format: format}
	}
}

// HandleStats shows local request metrics.
func HandleStats(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Telemetry == nil {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Telemetry disabled",
				Message: "No request metrics are being recorded.",
				Tip:     "Enable with: /config telemetry.enabled true",
			}
		}
	}
	store := ctx.Telemetry
	return func() tea.Msg {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stats, err := store.Stats(c)
		return StatsMsg{Stats: stats, Error: err}
	}
}

// HandleConfig shows or edits configuration.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ShowConfigMsg{}
		}
	}
	key := args[0]
	if len(args) == 1 {
		return func() tea.Msg {
			return ShowConfigMsg{Key: key}
		}
	}

	value := strings.Join(args[1:], " ")
	if ctx == nil || ctx.Config == nil {
		return func() tea.Msg {
			return ConfigUpdateMsg{Key: key, Error: fmt.Errorf("configuration unavailable")}
		}
	}
	cfg := ctx.Config
	return func() tea.Msg {
		if err := cfg.Set(key, value); err != nil {
			return ConfigUpdateMsg{Key: key, Error: err}
		}
		if err := cfg.Validate(); err != nil {
			return ConfigUpdateMsg{Key: key, Error: err}
		}
		got, _ := cfg.Get(key)
		return ConfigUpdateMsg{Key: key, Value: got}
	}
}

// HandleTheme changes the color theme.
func HandleTheme(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing theme",
				Message: "Pick a theme.",
				Tip:     "Usage: /theme <dark|light|auto>",
			}
		}
	}
	name := strings.ToLower(args[0])
	return func() tea.Msg {
		return ThemeMsg{Name: name}
	}
}
