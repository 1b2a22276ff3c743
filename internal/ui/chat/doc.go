// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view, the main screen of the
// Jetayu TUI.
//
// The view is a single Bubble Tea model that composes the components
// package: the message viewport, the aircraft suggestion deck, the
// sign-in form, the command completion popup, and the status bar.
//
// All conversation state lives in the conversation.Controller. The view
// never mutates it directly; controller operations run inside tea.Cmd
// closures and report back with TurnDoneMsg, after which the view
// re-derives everything it shows from a fresh snapshot. That keeps the
// render loop honest when turns finish out of order.
//
// The text input holds focus for the whole session. Global shortcuts
// therefore use modifiers (ctrl+l sign in, ctrl+e export, ctrl+n new
// conversation) or keys the input ignores (tab cycles aircraft cards,
// enter doubles as "select the focused card" when the input is empty).
package chat
