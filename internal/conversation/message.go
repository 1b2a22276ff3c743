// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message typed by the visitor.
	RoleUser Role = "user"

	// RoleAssistant is a concierge reply from the backend.
	RoleAssistant Role = "assistant"
)

// Message is one append-only entry in the conversation log.
//
// ID is a local monotonically increasing identifier used as a render
// key; it is never sent to the backend. The boolean flags are derived
// from the response that produced the message and are never mutated
// after creation.
type Message struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// IsNew marks a message appended by the most recent operation, for
	// entry animation.
	IsNew bool `json:"-"`

	// RequiresAuth marks an assistant message whose turn asked for
	// authentication; the renderer attaches a sign-in call-to-action.
	RequiresAuth bool `json:"-"`

	// ShowBookingCTA marks an assistant message whose turn confirmed
	// the booking.
	ShowBookingCTA bool `json:"-"`
}

// IsUser returns true for visitor messages.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true for concierge messages.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}
