// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

// GateState is the authentication-interleaving gate's state machine.
//
// The gate pauses a booking confirmation that the backend answered with
// requires_auth and resumes it once credentials exist, without touching
// the rest of the conversation. It is an explicit FSM rather than a set
// of booleans so the out-of-band sign-in transition has a name.
type GateState int

const (
	// GateIdle means no authentication is outstanding.
	GateIdle GateState = iota

	// GatePending means a response asked for authentication and the
	// sign-in call-to-action is surfaced; the session id at the time is
	// remembered so a reset invalidates the pending retry.
	GatePending

	// GateRetrying means credentials arrived and the last user message
	// is being resent. The gate returns to Idle when the retry's
	// response arrives, successful or not.
	GateRetrying
)

// String implements fmt.Stringer.
func (s GateState) String() string {
	switch s {
	case GatePending:
		return "pending"
	case GateRetrying:
		return "retrying"
	default:
		return "idle"
	}
}
