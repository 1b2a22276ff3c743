// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
)

// Event types emitted to subscribers.
type EventType string

const (
	// EventSignedIn fires after a successful sign-in, including one
	// completed while a conversation is waiting on authentication.
	EventSignedIn EventType = "SIGNED_IN"

	// EventSignedOut fires after sign-out, local or provider-initiated.
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event is a change in authentication state.
type Event struct {
	Type    EventType
	Session *Session
}

// Error variables for common identity failures.
var (
	// ErrNotConfigured indicates the identity provider URL is not set.
	ErrNotConfigured = errors.New("identity provider not configured")

	// ErrInvalidCredentials indicates the provider rejected the password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession indicates no signed-in session exists.
	ErrNoSession = errors.New("no active session")

	// ErrMFAFailed indicates the TOTP verification step failed.
	ErrMFAFailed = errors.New("multi-factor verification failed")
)

const (
	// defaultRequestTimeout bounds individual identity-provider calls.
	defaultRequestTimeout = 30 * time.Second

	// maxResponseSize limits identity-provider response bodies.
	maxResponseSize = 1 * 1024 * 1024 // 1MB
)

// Service is the client for the identity provider.
// SECURITY: Session state protected by mutex.
type Service struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	totpSecret string
	cache      *SessionCache

	mu          sync.RWMutex
	session     *Session
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithCache sets the encrypted on-disk session cache.
func WithCache(cache *SessionCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithTOTPSecret sets the TOTP secret used to complete the second
// authentication factor without prompting. Empty disables the step.
func WithTOTPSecret(secret string) Option {
	return func(s *Service) {
		s.totpSecret = strings.TrimSpace(secret)
	}
}

// WithHTTPClient replaces the underlying HTTP client. Tests use this.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		s.httpClient = hc
	}
}

// NewService creates an identity client for the provider at baseURL.
// The anon key authorizes unauthenticated provider endpoints.
func NewService(baseURL, anonKey string, opts ...Option) *Service {
	s := &Service{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsConfigured returns true if a provider URL is set.
func (s *Service) IsConfigured() bool {
	return s.baseURL != ""
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers a callback for auth state changes and returns an
// unsubscribe function. Callbacks run synchronously on the goroutine
// that triggered the change and must not block.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// notify invokes all subscribers. Caller must NOT hold s.mu.
func (s *Service) notify(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// =============================================================================
// SESSION ACCESS
// =============================================================================

// CurrentSession returns a copy of the active session, or nil when
// signed out or expired.
func (s *Service) CurrentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.session.IsValid() {
		return nil
	}
	copied := *s.session
	return &copied
}

// AccessToken returns the current bearer token, or "" when anonymous.
// Satisfies the backend client's token source contract.
func (s *Service) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.session.IsValid() {
		return ""
	}
	return s.session.AccessToken
}

// IsSignedIn returns true when a valid session exists.
func (s *Service) IsSignedIn() bool {
	return s.CurrentSession() != nil
}

// RestoreCached loads a previously cached session from disk. Expired or
// unreadable cache entries are discarded silently. No event is emitted;
// restore happens before any conversation exists.
func (s *Service) RestoreCached() bool {
	if s.cache == nil {
		return false
	}

	session, err := s.cache.Load()
	if err != nil {
		return false
	}
	if !session.IsValid() {
		_ = s.cache.Clear()
		return false
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return true
}

// =============================================================================
// SIGN IN / SIGN OUT
// =============================================================================

// tokenResponse is the provider's password-grant response envelope.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName string `json:"full_name"`
		} `json:"user_metadata"`
	} `json:"user"`
}

// providerError is the provider's error envelope.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// SignIn authenticates with email and password. When a TOTP secret is
// configured, the second factor is completed automatically with a
// locally generated code. On success the session is stored, cached to
// disk, and an EventSignedIn is emitted.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	var tok tokenResponse
	err := s.post(ctx, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &tok)
	if err != nil {
		return nil, err
	}

	// Optional second factor: challenge and verify a TOTP code derived
	// from the configured secret.
	if s.totpSecret != "" {
		upgraded, err := s.verifyTOTP(ctx, tok.AccessToken)
		if err != nil {
			return nil, err
		}
		if upgraded != nil {
			tok = *upgraded
		}
	}

	now := time.Now()
	session := &Session{
		AccessToken:     tok.AccessToken,
		RefreshToken:    tok.RefreshToken,
		UserID:          tok.User.ID,
		Email:           tok.User.Email,
		FullName:        tok.User.UserMetadata.FullName,
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(time.Duration(tok.ExpiresIn) * time.Second),
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Save(session); err != nil {
			// A failed cache write never fails the sign-in.
			log.Printf("identity: failed to cache session: %v", err)
		}
	}

	copied := *session
	s.notify(Event{Type: EventSignedIn, Session: &copied})
	return &copied, nil
}

// factorsResponse lists enrolled MFA factors.
type factorsResponse []struct {
	ID         string `json:"id"`
	FactorType string `json:"factor_type"`
	Status     string `json:"status"`
}

// challengeResponse is the provider's answer to a factor challenge.
type challengeResponse struct {
	ID string `json:"id"`
}

// verifyTOTP completes the TOTP factor using the configured secret.
// Returns the upgraded token response, or nil when the account has no
// verified TOTP factor enrolled.
func (s *Service) verifyTOTP(ctx context.Context, accessToken string) (*tokenResponse, error) {
	var factors factorsResponse
	if err := s.get(ctx, "/auth/v1/factors", accessToken, &factors); err != nil {
		return nil, fmt.Errorf("%w: listing factors: %v", ErrMFAFailed, err)
	}

	factorID := ""
	for _, f := range factors {
		if f.FactorType == "totp" && f.Status == "verified" {
			factorID = f.ID
			break
		}
	}
	if factorID == "" {
		return nil, nil
	}

	var challenge challengeResponse
	if err := s.post(ctx, "/auth/v1/factors/"+factorID+"/challenge", accessToken, map[string]string{}, &challenge); err != nil {
		return nil, fmt.Errorf("%w: creating challenge: %v", ErrMFAFailed, err)
	}

	code, err := totp.GenerateCode(s.totpSecret, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: generating code: %v", ErrMFAFailed, err)
	}

	var upgraded tokenResponse
	if err := s.post(ctx, "/auth/v1/factors/"+factorID+"/verify", accessToken, map[string]string{
		"challenge_id": challenge.ID,
		"code":         code,
	}, &upgraded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMFAFailed, err)
	}

	return &upgraded, nil
}

// SignOut revokes the session with the provider and clears local state.
// The local session is cleared even when the provider call fails; the
// visitor must always be able to sign out.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.Clear()
	}

	var revokeErr error
	if session.IsValid() && s.IsConfigured() {
		revokeErr = s.post(ctx, "/auth/v1/logout", session.AccessToken, map[string]string{}, nil)
		if revokeErr != nil {
			log.Printf("identity: provider sign-out failed: %v", revokeErr)
		}
	}

	s.notify(Event{Type: EventSignedOut})
	return revokeErr
}

// userResponse is the provider's user endpoint envelope.
type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

// Verify checks the current token against the provider's user endpoint.
// A rejected token clears the session and emits EventSignedOut.
func (s *Service) Verify(ctx context.Context) error {
	session := s.CurrentSession()
	if session == nil {
		return ErrNoSession
	}

	var user userResponse
	if err := s.get(ctx, "/auth/v1/user", session.AccessToken, &user); err != nil {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		if s.cache != nil {
			_ = s.cache.Clear()
		}
		s.notify(Event{Type: EventSignedOut})
		return err
	}
	return nil
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

func (s *Service) post(ctx context.Context, path, bearer string, body map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return s.do(ctx, http.MethodPost, path, bearer, payload, out)
}

func (s *Service) get(ctx context.Context, path, bearer string, out any) error {
	return s.do(ctx, http.MethodGet, path, bearer, nil, out)
}

// do performs a single provider request.
// SECURITY: Clears the Authorization header after the request, and never
// logs bodies, which carry credentials.
func (s *Service) do(ctx context.Context, method, path, bearer string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.anonKey != "" {
		req.Header.Set("apikey", s.anonKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	log.Printf("Identity Request: %s %s", method, strippedPath(path))

	resp, err := s.httpClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("Identity Response: %d %s", resp.StatusCode, strippedPath(path))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providerErrorFrom(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// strippedPath removes the query string before logging; grant types are
// fine to log but the pattern keeps future params out of logs.
func strippedPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// providerErrorFrom maps a provider error response to a Go error.
func providerErrorFrom(status int, body []byte) error {
	var pe providerError
	message := ""
	if err := json.Unmarshal(body, &pe); err == nil {
		message = pe.ErrorDescription
		if message == "" {
			message = pe.Message
		}
		if message == "" {
			message = pe.Error
		}
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		if message != "" {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
		}
		return ErrInvalidCredentials
	default:
		if message == "" {
			message = fmt.Sprintf("HTTP %d", status)
		}
		return fmt.Errorf("identity provider error: %s", message)
	}
}
