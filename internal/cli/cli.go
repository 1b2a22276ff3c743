// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for jetayu.

package cli

import (
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/chat"
)

// Version information, overridden at build time with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the subcommand to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAuth
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds the parsed invocation.
type Args struct {
	Command Command
	JSON    bool
	Quiet   bool
	Parser  *ArgParser // subcommand arguments
}

const usageText = `jetayu - private aviation concierge

Chat with the Jetayu flight desk, compare aircraft, and place booking
requests from your terminal.

Usage:
  jetayu                       Launch the TUI (default)
  jetayu chat                  Plain readline chat (no screen takeover)
  jetayu auth [subcommand]     Sign-in management
  jetayu config [subcommand]   Configuration
  jetayu status                Backend, identity, and metrics health
  jetayu version               Print version information
  jetayu help                  Show this help

Auth Commands:
  jetayu auth                  Show the current session (default)
  jetayu auth login [email]    Sign in (password prompted, never echoed)
  jetayu auth logout           Sign out and clear the cached session
    --json                     Output status in JSON format

Config Commands:
  jetayu config                Show the full configuration
  jetayu config get <key>      Show one value (e.g. ui.theme)
  jetayu config set <key> <v>  Change a value and save
  jetayu config path           Print the config file location

Chat Commands (inside jetayu chat):
  /aircraft                    Show the current suggestions again
  /select <name>               Choose an aircraft
  /login                       Sign in without leaving the chat
  /whoami                      Show the signed-in account
  /reset                       Start a fresh conversation
  /quit                        Leave (Ctrl+D works too)

Environment:
  JETAYU_BACKEND_URL           Override the concierge backend URL
  JETAYU_TOTP_SECRET           Second-factor secret for sign-in

Configuration file: ~/.jetayu/config.toml
`

// ParseArgs interprets os.Args style input (program name excluded).
func ParseArgs(argv []string) Args {
	args := Args{Command: CmdTUI}

	if len(argv) == 0 {
		return args
	}

	rest := argv[1:]
	switch argv[0] {
	case "chat", "repl":
		args.Command = CmdChat
	case "auth", "login", "logout", "whoami":
		args.Command = CmdAuth
		// Bare aliases fold into auth subcommands.
		if argv[0] != "auth" {
			rest = argv
		}
	case "config", "cfg":
		args.Command = CmdConfig
	case "status", "s":
		args.Command = CmdStatus
	case "version", "-version", "--version", "-v":
		args.Command = CmdVersion
	case "help", "-help", "--help", "-h":
		args.Command = CmdHelp
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", argv[0])
		args.Command = CmdHelp
	}

	p := NewArgParser(rest)
	args.Parser = p
	args.JSON = p.BoolFlag("json")
	args.Quiet = p.BoolFlag("quiet", "q")
	return args
}

// Run executes the parsed command and returns a process exit code.
func Run(args Args) int {
	if args.Parser == nil {
		args.Parser = NewArgParser(nil)
	}

	var err error
	switch args.Command {
	case CmdTUI:
		err = runTUI()
	case CmdChat:
		err = HandleChat(args)
	case CmdAuth:
		err = HandleAuth(args)
	case CmdConfig:
		err = HandleConfig(args)
	case CmdStatus:
		err = HandleStatus(args)
	case CmdVersion:
		printVersion()
	case CmdHelp:
		fmt.Print(usageText)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "jetayu: %v\n", err)
		return 1
	}
	return 0
}

// runTUI launches the full-screen conversation view.
func runTUI() error {
	app, err := BuildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	model := chat.New(app.Config, app.Controller, app.Identity, app.Metrics)
	model.SetVersion(Version)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printVersion() {
	fmt.Printf("jetayu %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  %s/%s, %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
