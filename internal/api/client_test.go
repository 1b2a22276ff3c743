// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// START SESSION TESTS
// =============================================================================

func TestStartSession_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/start" {
			t.Errorf("Expected path /start, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(StartResponse{
			SessionID:        "sess-123",
			AssistantMessage: "Welcome to Jetayu.",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.StartSession(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if resp.SessionID != "sess-123" {
		t.Errorf("SessionID = %q, want %q", resp.SessionID, "sess-123")
	}
	if resp.AssistantMessage != "Welcome to Jetayu." {
		t.Errorf("AssistantMessage = %q", resp.AssistantMessage)
	}
}

func TestStartSession_IdentityForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Email != "ava@example.com" {
			t.Errorf("Email = %q, want %q", req.Email, "ava@example.com")
		}
		json.NewEncoder(w).Encode(StartResponse{SessionID: "s1", AssistantMessage: "hi"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.StartSession(context.Background(), &UserIdentity{
		UserID: "u-1", Email: "ava@example.com", FullName: "Ava Chen",
	})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_FullTurnDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("Expected path /chat, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			SessionID:        "sess-123",
			AssistantMessage: "Here are some options.",
			LeadState: &LeadState{
				RouteFrom:       "KTEB",
				RouteTo:         "EGGW",
				Pax:             6,
				Status:          LeadStatusDraft,
				SubmissionState: SubmissionCollecting,
			},
			MissingFields: []string{"date_time", "name", "email"},
			ShowAircraft:  true,
			Aircraft: []Aircraft{
				{ID: "g650", Name: "Gulfstream G650", Category: "Ultra Long Range", Capacity: 14},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Chat(context.Background(), &ChatRequest{
		SessionID: "sess-123",
		Message:   "Teterboro to Luton, 6 of us",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !resp.ShowAircraft {
		t.Error("ShowAircraft = false, want true")
	}
	if len(resp.Aircraft) != 1 || resp.Aircraft[0].ID != "g650" {
		t.Errorf("Aircraft = %+v", resp.Aircraft)
	}
	if resp.LeadState == nil || resp.LeadState.Pax != 6 {
		t.Errorf("LeadState = %+v", resp.LeadState)
	}
	if len(resp.MissingFields) != 3 {
		t.Errorf("MissingFields = %v", resp.MissingFields)
	}
}

func TestChat_SelectionRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Type != MessageTypeAircraftSelected {
			t.Errorf("Type = %q, want %q", req.Type, MessageTypeAircraftSelected)
		}
		if req.SelectedAircraft == nil || req.SelectedAircraft.ID != "phenom300e" {
			t.Errorf("SelectedAircraft = %+v", req.SelectedAircraft)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Excellent choice.",
			LeadState:        &LeadState{SelectedAircraft: "Phenom 300E"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Chat(context.Background(), &ChatRequest{
		SessionID:        "sess-1",
		Message:          "I'd like the Phenom 300E",
		Type:             MessageTypeAircraftSelected,
		SelectedAircraft: &AircraftRef{ID: "phenom300e", Name: "Phenom 300E"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.LeadState.SelectedAircraft != "Phenom 300E" {
		t.Errorf("SelectedAircraft = %q", resp.LeadState.SelectedAircraft)
	}
}

func TestChat_BearerTokenAttached(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(ChatResponse{SessionID: "s", AssistantMessage: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL).WithTokenSource(func() string { return "tok-abc" })
	if _, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got := gotAuth.Load().(string); got != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer tok-abc")
	}
}

func TestChat_AnonymousOmitsAuth(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(ChatResponse{SessionID: "s", AssistantMessage: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL).WithTokenSource(func() string { return "" })
	if _, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got := gotAuth.Load().(string); got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestChat_PartialResponseDecodesZeroValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Minimal body, most fields absent.
		w.Write([]byte(`{"session_id":"s","assistant_message":"hello"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.LeadState != nil {
		t.Errorf("LeadState = %+v, want nil", resp.LeadState)
	}
	if resp.ShowAircraft || resp.RequiresAuth || resp.BookingConfirmed {
		t.Error("Boolean flags should default to false")
	}
	if len(resp.Aircraft) != 0 {
		t.Errorf("Aircraft = %v, want empty", resp.Aircraft)
	}
}

// =============================================================================
// ERROR HANDLING TESTS
// =============================================================================

func TestChat_NotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestChat_AuthRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid or expired token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"})
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Expected ErrAuthRequired, got %v", err)
	}
}

func TestChat_SessionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Session not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), &ChatRequest{SessionID: "stale", Message: "hi"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestChat_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":"internal","message":"temporary"}}`))
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{SessionID: "s", AssistantMessage: "recovered"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"})
	if err != nil {
		t.Fatalf("Chat failed after retries: %v", err)
	}
	if resp.AssistantMessage != "recovered" {
		t.Errorf("AssistantMessage = %q", resp.AssistantMessage)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestChat_NoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"bad_request","message":"missing session_id"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), &ChatRequest{Message: "hi"})
	if err == nil {
		t.Fatal("Expected error for bad request")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", apiErr.Status)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", calls.Load())
	}
}

func TestChat_RetryExhaustion(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":"unavailable","message":"down"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).WithMaxRetries(2)
	_, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"})
	if err == nil {
		t.Fatal("Expected error after retry exhaustion")
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls.Load())
	}
}

func TestChat_ContextCancellationNotRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(ChatResponse{SessionID: "s"})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL)
	_, err := client.Chat(ctx, &ChatRequest{SessionID: "s", Message: "hi"})
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}

// =============================================================================
// OBSERVER TESTS
// =============================================================================

func TestObserver_RecordsMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{SessionID: "s", AssistantMessage: "ok"})
	}))
	defer server.Close()

	var got RequestMetric
	client := NewClient(server.URL).WithObserver(func(m RequestMetric) { got = m })
	if _, err := client.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "hi"}); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got.Endpoint != "/chat" {
		t.Errorf("Endpoint = %q, want /chat", got.Endpoint)
	}
	if got.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", got.Status)
	}
	if got.RequestID == "" {
		t.Error("RequestID should not be empty")
	}
	if got.Err != "" {
		t.Errorf("Err = %q, want empty", got.Err)
	}
}

func TestBackoffCapped(t *testing.T) {
	if d := calculateBackoff(1); d != time.Second {
		t.Errorf("calculateBackoff(1) = %v, want 1s", d)
	}
	if d := calculateBackoff(10); d != retryMaxDelay {
		t.Errorf("calculateBackoff(10) = %v, want %v", d, retryMaxDelay)
	}
}
