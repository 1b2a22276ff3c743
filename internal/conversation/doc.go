// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the concierge chat session.
//
// The Controller is the single authoritative owner of the session
// identifier, the message log, and the loading flag, and is the only
// component that calls the backend's start and chat endpoints. Every
// backend response flows through one reconciliation step that replaces
// the lead snapshot wholesale, recomputes the aircraft selection state,
// and drives the authentication gate.
//
// Three concerns live here:
//
//   - the session controller (message log, loading, request dispatch)
//   - the aircraft selection reconciler (None / Previewing / Confirmed
//     as a tagged union; server state wins the moment a response lands)
//   - the auth-interleaving gate (Idle / Pending / Retrying; resumes a
//     paused booking confirmation after sign-in by resending the last
//     user message)
//
// All state is runtime memory only. A process restart ends the session.
package conversation
