// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestSession_Validity(t *testing.T) {
	now := time.Now()

	valid := &Session{
		AccessToken:     "tok",
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(time.Hour),
	}
	assert.True(t, valid.IsValid())
	assert.False(t, valid.IsExpired())
	assert.Greater(t, valid.TimeRemaining(), time.Duration(0))

	expired := &Session{
		AccessToken:     "tok",
		AuthenticatedAt: now.Add(-2 * time.Hour),
		ExpiresAt:       now.Add(-time.Hour),
	}
	assert.False(t, expired.IsValid())
	assert.Equal(t, time.Duration(0), expired.TimeRemaining())

	tooOld := &Session{
		AccessToken:     "tok",
		AuthenticatedAt: now.Add(-13 * time.Hour),
		ExpiresAt:       now.Add(time.Hour),
	}
	assert.True(t, tooOld.IsExpired(), "sessions past the absolute cap must expire")

	var nilSession *Session
	assert.False(t, nilSession.IsValid())
}

func TestSession_APIIdentity(t *testing.T) {
	now := time.Now()
	s := &Session{
		AccessToken:     "tok",
		UserID:          "u-1",
		Email:           "ava@example.com",
		FullName:        "Ava Chen",
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(time.Hour),
	}

	id := s.APIIdentity()
	require.NotNil(t, id)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "ava@example.com", id.Email)
	assert.Equal(t, "Ava Chen", id.FullName)

	s.ExpiresAt = now.Add(-time.Minute)
	assert.Nil(t, s.APIIdentity())
}

// =============================================================================
// CACHE TESTS
// =============================================================================

func testSession() *Session {
	now := time.Now().Truncate(time.Second)
	return &Session{
		AccessToken:     "access-token-value",
		RefreshToken:    "refresh-token-value",
		UserID:          "u-42",
		Email:           "ava@example.com",
		FullName:        "Ava Chen",
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(time.Hour),
	}
}

func TestSessionCache_RoundTrip(t *testing.T) {
	cache, err := NewSessionCache(t.TempDir())
	require.NoError(t, err)

	want := testSession()
	require.NoError(t, cache.Save(want))

	got, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Email, got.Email)
}

func TestSessionCache_EncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewSessionCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Save(testSession()))

	raw, err := os.ReadFile(filepath.Join(dir, sessionFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-token-value",
		"token must not appear in plaintext on disk")
	assert.True(t, len(raw) > len(encryptedPrefix))
}

func TestSessionCache_Miss(t *testing.T) {
	cache, err := NewSessionCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Load()
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSessionCache_TamperDetected(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewSessionCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Save(testSession()))

	path := filepath.Join(dir, sessionFileName)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-2] ^= 0x01
	require.NoError(t, os.WriteFile(path, raw, 0600))

	_, err = cache.Load()
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestSessionCache_Clear(t *testing.T) {
	cache, err := NewSessionCache(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cache.Save(testSession()))
	require.NoError(t, cache.Clear())

	_, err = cache.Load()
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Clearing an empty cache is not an error.
	assert.NoError(t, cache.Clear())
}

// =============================================================================
// SERVICE TESTS
// =============================================================================

func newTokenBody(access string) map[string]any {
	return map[string]any{
		"access_token":  access,
		"refresh_token": "refresh-1",
		"expires_in":    3600,
		"user": map[string]any{
			"id":    "u-42",
			"email": "ava@example.com",
			"user_metadata": map[string]any{
				"full_name": "Ava Chen",
			},
		},
	}
}

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ava@example.com", body["email"])

		json.NewEncoder(w).Encode(newTokenBody("access-1"))
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key")
	session, err := svc.SignIn(context.Background(), "ava@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "u-42", session.UserID)
	assert.Equal(t, "Ava Chen", session.FullName)

	assert.True(t, svc.IsSignedIn())
	assert.Equal(t, "access-1", svc.AccessToken())
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key")
	_, err := svc.SignIn(context.Background(), "ava@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, svc.IsSignedIn())
	assert.Equal(t, "", svc.AccessToken())
}

func TestSignIn_NotConfigured(t *testing.T) {
	svc := NewService("", "")
	_, err := svc.SignIn(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignIn_EmitsEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(newTokenBody("access-1"))
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key")

	var events []Event
	unsubscribe := svc.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := svc.SignIn(context.Background(), "ava@example.com", "secret")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventSignedIn, events[0].Type)
	require.NotNil(t, events[0].Session)
	assert.Equal(t, "u-42", events[0].Session.UserID)

	unsubscribe()
	require.NoError(t, svc.SignOut(context.Background()))
	assert.Len(t, events, 1, "unsubscribed callback must not fire")
}

func TestSignIn_TOTPStep(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "jetayu-test", AccountName: "ava@example.com"})
	require.NoError(t, err)
	secret := key.Secret()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			json.NewEncoder(w).Encode(newTokenBody("aal1-token"))
		case "/auth/v1/factors":
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "factor-1", "factor_type": "totp", "status": "verified"},
			})
		case "/auth/v1/factors/factor-1/challenge":
			json.NewEncoder(w).Encode(map[string]string{"id": "challenge-1"})
		case "/auth/v1/factors/factor-1/verify":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "challenge-1", body["challenge_id"])
			require.True(t, totp.Validate(body["code"], secret), "client must send a valid TOTP code")
			json.NewEncoder(w).Encode(newTokenBody("aal2-token"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key", WithTOTPSecret(secret))
	session, err := svc.SignIn(context.Background(), "ava@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "aal2-token", session.AccessToken, "session must carry the upgraded token")
}

func TestSignIn_TOTPSkippedWithoutEnrolledFactor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			json.NewEncoder(w).Encode(newTokenBody("aal1-token"))
		case "/auth/v1/factors":
			json.NewEncoder(w).Encode([]map[string]string{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key", WithTOTPSecret("JBSWY3DPEHPK3PXP"))
	session, err := svc.SignIn(context.Background(), "ava@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "aal1-token", session.AccessToken)
}

func TestSignOut_ClearsLocalStateOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(newTokenBody("access-1"))
	}))
	defer server.Close()

	svc := NewService(server.URL, "anon-key")
	_, err := svc.SignIn(context.Background(), "ava@example.com", "secret")
	require.NoError(t, err)

	var events []Event
	svc.Subscribe(func(ev Event) { events = append(events, ev) })

	err = svc.SignOut(context.Background())
	assert.Error(t, err, "provider failure is reported")
	assert.False(t, svc.IsSignedIn(), "local session is cleared regardless")
	require.Len(t, events, 1)
	assert.Equal(t, EventSignedOut, events[0].Type)
}

func TestRestoreCached(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewSessionCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Save(testSession()))

	svc := NewService("https://identity.example", "anon-key", WithCache(cache))
	assert.True(t, svc.RestoreCached())
	assert.True(t, svc.IsSignedIn())
	assert.Equal(t, "access-token-value", svc.AccessToken())
}

func TestRestoreCached_ExpiredDiscarded(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewSessionCache(dir)
	require.NoError(t, err)

	stale := testSession()
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, cache.Save(stale))

	svc := NewService("https://identity.example", "anon-key", WithCache(cache))
	assert.False(t, svc.RestoreCached())
	assert.False(t, svc.IsSignedIn())

	_, err = cache.Load()
	assert.ErrorIs(t, err, ErrCacheMiss, "expired cache entry is removed")
}
