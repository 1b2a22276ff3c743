// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the concierge backend API.
const (
	// DefaultTimeout is the default timeout for API requests. A stalled
	// request must never leave the conversation stuck in loading.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// defaultUserAgent identifies the client to the backend.
	defaultUserAgent = "jetayu/0.1.0"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all backend requests.
// SECURITY: TLS verification required for production
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrNotConfigured indicates the backend base URL is not set.
	ErrNotConfigured = errors.New("backend URL not configured")

	// ErrAuthRequired indicates the backend rejected the bearer token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrSessionNotFound indicates the session id is unknown to the
	// backend, typically after a backend restart.
	ErrSessionNotFound = errors.New("session not found")
)

// APIError represents an error response from the concierge backend.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
}

// RequestMetric describes one completed backend request for observers.
// It carries metadata only, never message content or credentials.
type RequestMetric struct {
	RequestID string
	Endpoint  string
	Status    int
	Duration  time.Duration
	Err       string
}

// TokenSource supplies the current bearer token, or "" when the visitor
// is anonymous. It is consulted per request so a sign-in mid-conversation
// takes effect on the next turn.
type TokenSource func() string

// Client communicates with the Jetayu concierge backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	timeout     time.Duration
	userAgent   string
	tokenSource TokenSource
	limiter     *rate.Limiter
	observer    func(RequestMetric)
}

// NewClient creates a client for the backend at baseURL.
//
// If baseURL is empty the client is still created but requests fail with
// ErrNotConfigured. The default limiter allows 5 requests per second with
// a burst of 10, far above what a single chat session produces; it exists
// to bound runaway retry loops, not to throttle typing.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
		userAgent:  defaultUserAgent,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// WithUserAgent sets the User-Agent header value.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithTokenSource sets the bearer token supplier.
func (c *Client) WithTokenSource(src TokenSource) *Client {
	c.tokenSource = src
	return c
}

// WithObserver registers a callback invoked after every request with
// request metadata. Used for telemetry.
func (c *Client) WithObserver(fn func(RequestMetric)) *Client {
	c.observer = fn
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// point at an httptest server without the shared transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured returns true if the client has a backend URL configured.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// API: Request/Response Logging (without sensitive data)
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// Headers may contain auth and bodies contain conversation text, so
// neither is logged.
func logRequest(requestID, method, path string) {
	log.Printf("API Request: %s %s [%s]", method, path, requestID)
}

// logResponse logs an API response with duration. Only the status code
// and duration are recorded, never the response body.
func logResponse(requestID string, status int, duration time.Duration) {
	log.Printf("API Response: %d [%s] (%v)", status, requestID, duration)
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// StartSession opens a new conversation session and returns the backend's
// greeting. Identity may be nil for anonymous visitors.
func (c *Client) StartSession(ctx context.Context, identity *UserIdentity) (*StartResponse, error) {
	req := StartRequest{}
	if identity != nil {
		req.UserIdentity = *identity
	}

	var resp StartResponse
	if err := c.postJSON(ctx, "/start", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat advances a conversation turn. The request carries either free text
// or a structured aircraft selection; the response is a full turn snapshot.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, errors.New("nil chat request")
	}

	var resp ChatResponse
	if err := c.postJSON(ctx, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// API: Retry Logic with Exponential Backoff
// =============================================================================

// postJSON performs a POST with retries for transient failures. Retries
// apply to rate limiting and 5xx responses only, never to context
// cancellation.
func (c *Client) postJSON(ctx context.Context, path string, reqBody, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		// Apply backoff delay after first attempt
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.doRequest(ctx, path, bodyBytes, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request against the backend.
//
// SECURITY: Clears the Authorization header after the request so the
// token cannot leak through request dumps.
func (c *Client) doRequest(ctx context.Context, path string, body []byte, out any) error {
	requestID := uuid.NewString()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logRequest(requestID, req.Method, path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	req.Header.Del("Authorization")

	if err != nil {
		c.observe(RequestMetric{RequestID: requestID, Endpoint: path, Duration: duration, Err: "transport"})
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	logResponse(requestID, resp.StatusCode, duration)

	respBody, err := readResponse(resp)
	if err != nil {
		c.observe(RequestMetric{RequestID: requestID, Endpoint: path, Status: resp.StatusCode, Duration: duration, Err: "read"})
		return err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := handleErrorResponse(resp.StatusCode, respBody)
		c.observe(RequestMetric{RequestID: requestID, Endpoint: path, Status: resp.StatusCode, Duration: duration, Err: errLabel(apiErr)})
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.observe(RequestMetric{RequestID: requestID, Endpoint: path, Status: resp.StatusCode, Duration: duration, Err: "decode"})
		return fmt.Errorf("failed to parse response: %w", err)
	}

	c.observe(RequestMetric{RequestID: requestID, Endpoint: path, Status: resp.StatusCode, Duration: duration})
	return nil
}

func (c *Client) observe(m RequestMetric) {
	if c.observer != nil {
		c.observer(m)
	}
}

// errLabel maps an error to a short metric label without leaking detail.
func errLabel(err error) string {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "auth"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	default:
		return "http"
	}
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message := apiErr.Error.Message
		if message == "" {
			message = apiErr.Detail
		}
		if message != "" {
			backendErr := &APIError{
				Code:    apiErr.Error.Code,
				Message: message,
				Status:  statusCode,
			}

			switch statusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return fmt.Errorf("%w: %s", ErrAuthRequired, backendErr.Message)
			case http.StatusNotFound:
				return fmt.Errorf("%w: %s", ErrSessionNotFound, backendErr.Message)
			case http.StatusTooManyRequests:
				return fmt.Errorf("%w: %s", ErrRateLimited, backendErr.Message)
			default:
				return backendErr
			}
		}
	}

	// Fallback for unparseable error responses
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthRequired
	case http.StatusNotFound:
		return ErrSessionNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{
			Message: string(body),
			Status:  statusCode,
		}
	}
}

// isRetryable determines if an error should trigger a retry.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}

	// Never retry context cancellation.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// calculateBackoff returns the delay to wait before the next retry.
func calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: 500ms, 1000ms, 2000ms, etc.
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
