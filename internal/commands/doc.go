// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat UI.
//
// Commands are registered in a Registry, parsed from raw input by a
// Parser, and executed through handlers that return bubbletea commands.
// Handlers never mutate UI state directly; they emit typed messages the
// chat model consumes on its update loop.
//
// # Built-in Commands
//
//   - /help, /quit
//   - /reset: start a fresh conversation
//   - /login, /logout, /whoami: identity
//   - /aircraft, /select, /details, /back: aircraft navigation
//   - /export: write the transcript to disk
//   - /stats: local request metrics
//   - /config, /theme: settings
package commands
