// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the jetayu command line interface.
//
// The default invocation launches the full-screen TUI. Subcommands
// cover everything that makes sense without a screen takeover:
//
//	jetayu              Launch the TUI (default)
//	jetayu chat         Plain readline chat, for dumb terminals and SSH
//	jetayu auth         Sign in, sign out, show the current session
//	jetayu config       Show and change configuration
//	jetayu status       Backend, identity, and metrics health
//	jetayu version      Print version information
//
// The package owns argument parsing and the shared application wiring
// (config, API client, identity service, telemetry store, conversation
// controller) that both the TUI and the plain REPL are built on.
package cli
