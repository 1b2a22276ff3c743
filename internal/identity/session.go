// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

const (
	// MaxSessionDuration is the absolute maximum age of a cached session.
	// Tokens older than this are discarded even if the provider issued a
	// longer expiry.
	MaxSessionDuration = 12 * time.Hour
)

// Session is an authenticated identity-provider session.
type Session struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token,omitempty"`
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name,omitempty"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired. Checks both the
// provider-issued expiry and the absolute session age cap.
func (s *Session) IsExpired() bool {
	now := time.Now()
	if now.After(s.ExpiresAt) {
		return true
	}
	if now.Sub(s.AuthenticatedAt) >= MaxSessionDuration {
		return true
	}
	return false
}

// IsValid returns true if the session carries a token and is not expired.
func (s *Session) IsValid() bool {
	if s == nil {
		return false
	}
	return s.AccessToken != "" && !s.IsExpired()
}

// TimeRemaining returns the duration until the session expires.
func (s *Session) TimeRemaining() time.Duration {
	remaining := time.Until(s.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// APIIdentity converts the session into the identity fields attached to
// backend requests. Returns nil for an invalid session.
func (s *Session) APIIdentity() *api.UserIdentity {
	if !s.IsValid() {
		return nil
	}
	return &api.UserIdentity{
		UserID:   s.UserID,
		Email:    s.Email,
		FullName: s.FullName,
	}
}
