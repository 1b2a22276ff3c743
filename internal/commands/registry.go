// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/export"
	"github.com/mohanraghava-higherself/jetayuV1/internal/identity"
	"github.com/mohanraghava-higherself/jetayuV1/internal/telemetry"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/select <aircraft>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString   ArgType = iota // Free-form string
	ArgTypeEnum                    // One of predefined values
	ArgTypeAircraft                // Aircraft name from current suggestions
	ArgTypeConfig                  // Config key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [topic]",
		Category:    "Navigation",
		Handler:     HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit jetayu",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Conversation
	r.Register(&Command{
		Name:        "/reset",
		Aliases:     []string{"/new", "/clear"},
		Description: "Start a fresh conversation",
		Category:    "Conversation",
		Handler:     HandleReset,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export the transcript to a file",
		Usage:       "/export [markdown|json]",
		Args: []ArgDef{
			{Name: "format", Required: false, Type: ArgTypeEnum, Values: []string{"markdown", "md", "json"}, Description: "Export format"},
		},
		Category: "Conversation",
		Handler:  HandleExport,
	})

	// Aircraft
	r.Register(&Command{
		Name:        "/aircraft",
		Aliases:     []string{"/jets"},
		Description: "Show the current aircraft suggestions",
		Category:    "Aircraft",
		Handler:     HandleAircraft,
	})

	r.Register(&Command{
		Name:        "/select",
		Description: "Select an aircraft by name",
		Usage:       "/select <aircraft>",
		Args: []ArgDef{
			{Name: "aircraft", Required: true, Type: ArgTypeAircraft, Description: "Aircraft name from the suggestions"},
		},
		Category: "Aircraft",
		Handler:  HandleSelect,
	})

	r.Register(&Command{
		Name:        "/details",
		Aliases:     []string{"/view"},
		Description: "Preview an aircraft's details",
		Usage:       "/details <aircraft>",
		Args: []ArgDef{
			{Name: "aircraft", Required: true, Type: ArgTypeAircraft, Description: "Aircraft name from the suggestions"},
		},
		Category: "Aircraft",
		Handler:  HandleDetails,
	})

	r.Register(&Command{
		Name:        "/back",
		Description: "Return to the previously shown aircraft list",
		Category:    "Aircraft",
		Handler:     HandleBack,
	})

	// Identity
	r.Register(&Command{
		Name:        "/login",
		Aliases:     []string{"/signin"},
		Description: "Sign in to confirm bookings",
		Usage:       "/login [email]",
		Args: []ArgDef{
			{Name: "email", Required: false, Type: ArgTypeString, Description: "Email to prefill"},
		},
		Category: "Identity",
		Handler:  HandleLogin,
	})

	r.Register(&Command{
		Name:        "/logout",
		Aliases:     []string{"/signout"},
		Description: "Sign out and clear the cached session",
		Category:    "Identity",
		Handler:     HandleLogout,
	})

	r.Register(&Command{
		Name:        "/whoami",
		Description: "Show the signed-in account",
		Category:    "Identity",
		Handler:     HandleWhoami,
	})

	// Settings
	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Required: false, Type: ArgTypeConfig, Description: "Config key to show/set"},
			{Name: "value", Required: false, Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Change color theme",
		Usage:       "/theme <dark|light|auto>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: []string{"dark", "light", "auto"}, Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  HandleTheme,
	})

	r.Register(&Command{
		Name:        "/stats",
		Description: "Show local request metrics",
		Category:    "Settings",
		Handler:     HandleStats,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// All fields are optional and may be nil; handlers check before use and
// fall back to emitting a message the app resolves itself.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Controller owns the active conversation
	Controller *conversation.Controller

	// Identity is the sign-in service
	Identity *identity.Service

	// Telemetry is the local metrics store
	Telemetry *telemetry.Store

	// ExportOptions configures transcript export
	ExportOptions *export.Options
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be nil.
func NewContext(cfg *config.Config, ctrl *conversation.Controller, ident *identity.Service, metrics *telemetry.Store) *Context {
	return &Context{
		Config:     cfg,
		Controller: ctrl,
		Identity:   ident,
		Telemetry:  metrics,
	}
}
