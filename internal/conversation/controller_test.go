// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

const testGreeting = "Good evening. Welcome to Jetayu Private Aviation."

// conciergeHandler builds a fake backend. chat is invoked with the
// 1-based call number and the decoded request.
func conciergeHandler(t *testing.T, startCalls *atomic.Int32, chat func(n int, req api.ChatRequest) api.ChatResponse) http.HandlerFunc {
	t.Helper()
	var chatCalls atomic.Int32
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			if startCalls != nil {
				startCalls.Add(1)
			}
			json.NewEncoder(w).Encode(api.StartResponse{
				SessionID:        "sess-1",
				AssistantMessage: testGreeting,
			})
		case "/chat":
			var req api.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad chat request: %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(chat(int(chatCalls.Add(1)), req))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestController(t *testing.T, handler http.Handler, opts ...ControllerOption) *Controller {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL).WithMaxRetries(1)
	return NewController(client, opts...)
}

func echoChat(n int, req api.ChatRequest) api.ChatResponse {
	return api.ChatResponse{
		SessionID:        req.SessionID,
		AssistantMessage: fmt.Sprintf("reply %d", n),
		LeadState:        &api.LeadState{Status: api.LeadStatusDraft},
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

func TestStartSession_SeedsGreeting(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, echoChat))
	c.StartSession(context.Background())

	snap := c.Snapshot()
	if snap.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", snap.SessionID)
	}
	if len(snap.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(snap.Messages))
	}
	if snap.Messages[0].Role != RoleAssistant || snap.Messages[0].Content != testGreeting {
		t.Errorf("greeting = %+v", snap.Messages[0])
	}
	if snap.Loading {
		t.Error("loading must be false after start")
	}
}

func TestStartSession_Idempotent(t *testing.T) {
	var startCalls atomic.Int32
	c := newTestController(t, conciergeHandler(t, &startCalls, echoChat))

	c.StartSession(context.Background())
	c.StartSession(context.Background())

	if got := startCalls.Load(); got != 1 {
		t.Errorf("start calls = %d, want 1", got)
	}
	if got := len(c.Snapshot().Messages); got != 1 {
		t.Errorf("messages = %d, want exactly one greeting", got)
	}
}

func TestStartSession_FallbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // force a transport failure

	client := api.NewClient(server.URL).WithMaxRetries(1)
	c := NewController(client)
	c.StartSession(context.Background())

	snap := c.Snapshot()
	if len(snap.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(snap.Messages))
	}
	if snap.Messages[0].Content != FallbackGreeting {
		t.Errorf("fallback greeting = %q", snap.Messages[0].Content)
	}
	if snap.Loading {
		t.Error("loading must be false after failed start")
	}
	if snap.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", snap.SessionID)
	}
}

// =============================================================================
// MESSAGE LOG ORDERING
// =============================================================================

func TestSendMessage_LogGrowsTwoPerTurn(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, echoChat))
	c.StartSession(context.Background())

	const turns = 4
	for i := 0; i < turns; i++ {
		c.SendMessage(context.Background(), fmt.Sprintf("message %d", i))
	}

	snap := c.Snapshot()
	want := 2*turns + 1
	if len(snap.Messages) != want {
		t.Fatalf("log length = %d, want %d", len(snap.Messages), want)
	}
	// Strictly alternating after the greeting, user first.
	for i, msg := range snap.Messages[1:] {
		wantRole := RoleUser
		if i%2 == 1 {
			wantRole = RoleAssistant
		}
		if msg.Role != wantRole {
			t.Errorf("message %d role = %s, want %s", i+1, msg.Role, wantRole)
		}
	}
	// IDs are strictly increasing.
	for i := 1; i < len(snap.Messages); i++ {
		if snap.Messages[i].ID <= snap.Messages[i-1].ID {
			t.Errorf("message IDs not increasing at %d", i)
		}
	}
}

func TestSendMessage_LazyStart(t *testing.T) {
	var startCalls atomic.Int32
	c := newTestController(t, conciergeHandler(t, &startCalls, echoChat))

	c.SendMessage(context.Background(), "hello")

	if startCalls.Load() != 1 {
		t.Errorf("start calls = %d, want 1", startCalls.Load())
	}
	snap := c.Snapshot()
	// Optimistic user append precedes the lazily fetched greeting.
	if len(snap.Messages) != 3 {
		t.Fatalf("log length = %d, want 3", len(snap.Messages))
	}
	if snap.Messages[0].Role != RoleUser || snap.Messages[1].Content != testGreeting {
		t.Errorf("unexpected log order: %+v", snap.Messages)
	}
}

func TestSendMessage_FallbackOnTransportFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			json.NewEncoder(w).Encode(api.StartResponse{SessionID: "sess-1", AssistantMessage: testGreeting})
			return
		}
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := api.NewClient(server.URL).WithMaxRetries(1)
	c := NewController(client)
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "Dubai to Nice please")

	snap := c.Snapshot()
	last := snap.Messages[len(snap.Messages)-1]
	if last.Role != RoleAssistant || last.Content != FallbackReply {
		t.Errorf("last message = %+v, want fallback reply", last)
	}
	if snap.Loading {
		t.Error("loading must be false after transport failure")
	}
}

// =============================================================================
// SELECTION RECONCILIATION
// =============================================================================

var testFleet = []api.Aircraft{
	{ID: "phenom300e", Name: "Phenom 300E", Category: "Light", Capacity: 8},
	{ID: "g650", Name: "Gulfstream G650", Category: "Ultra Long Range", Capacity: 14},
}

func TestHappyPath_ShowsCards(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Here are some options for 4 passengers.",
			LeadState:        &api.LeadState{RouteFrom: "Dubai", RouteTo: "Nice", Pax: 4},
			ShowAircraft:     true,
			Aircraft:         testFleet,
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "Fly me from Dubai to Nice, 4 passengers")

	snap := c.Snapshot()
	if snap.Lead.Pax != 4 {
		t.Errorf("Lead.Pax = %d, want 4", snap.Lead.Pax)
	}
	if !snap.ShowAircraft || len(snap.Candidates) != 2 {
		t.Errorf("ShowAircraft=%v Candidates=%d, want cards visible", snap.ShowAircraft, len(snap.Candidates))
	}
	if snap.Selection.Kind != SelectionNone {
		t.Errorf("Selection = %s, want none", snap.Selection.Kind)
	}
}

func TestServerConfirmation_WinsAndHidesCards(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		if n == 1 {
			return api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Options below.",
				LeadState:        &api.LeadState{},
				ShowAircraft:     true,
				Aircraft:         testFleet,
			}
		}
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "The Gulfstream G650 it is.",
			LeadState:        &api.LeadState{SelectedAircraft: "Gulfstream G650"},
			// Pure-confirmation turn: candidate list omitted.
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "show me jets")
	c.Preview(testFleet[0])
	c.SendMessage(context.Background(), "the G650 please")

	snap := c.Snapshot()
	if snap.Selection.Kind != SelectionConfirmed {
		t.Fatalf("Selection = %s, want confirmed", snap.Selection.Kind)
	}
	// Resolved from the previously shown list, full entry intact.
	if snap.Selection.Aircraft.ID != "g650" || snap.Selection.Aircraft.Capacity != 14 {
		t.Errorf("confirmed aircraft = %+v, want resolved g650", snap.Selection.Aircraft)
	}
	if snap.ShowAircraft {
		t.Error("cards must hide when a selection is confirmed")
	}
}

func TestClearConfirmed_WhenLeadDropsSelection(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		if n == 1 {
			return api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Selected.",
				LeadState:        &api.LeadState{SelectedAircraft: "Phenom 300E"},
				Aircraft:         testFleet,
			}
		}
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Of course, here are other options.",
			LeadState:        &api.LeadState{},
			ShowAircraft:     true,
			Aircraft:         testFleet,
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "the Phenom please")

	if got := c.Snapshot().Selection.Kind; got != SelectionConfirmed {
		t.Fatalf("Selection = %s, want confirmed", got)
	}

	c.SendMessage(context.Background(), "actually can I compare it with something")

	snap := c.Snapshot()
	if snap.Selection.Kind != SelectionNone {
		t.Errorf("Selection = %s, want cleared", snap.Selection.Kind)
	}
	if !snap.ShowAircraft {
		t.Error("cards must show again once the selection is dropped")
	}
}

func TestOptimisticSelect_AppliesBeforeResponse(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			json.NewEncoder(w).Encode(api.StartResponse{SessionID: "sess-1", AssistantMessage: testGreeting})
		case "/chat":
			<-release
			var req api.ChatRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Confirmed.",
				LeadState:        &api.LeadState{SelectedAircraft: "Gulfstream G650"},
			})
		}
	}))
	c.StartSession(context.Background())

	done := make(chan struct{})
	go func() {
		c.SendAircraftSelection(context.Background(), testFleet[1])
		close(done)
	}()

	// Optimistic state is visible while the request is still in flight.
	deadline := time.After(2 * time.Second)
	for {
		snap := c.Snapshot()
		if snap.Selection.Kind == SelectionConfirmed && snap.Loading {
			if snap.Selection.Aircraft.ID != "g650" {
				t.Errorf("optimistic aircraft = %+v", snap.Selection.Aircraft)
			}
			if snap.ShowAircraft {
				t.Error("cards must hide on optimistic select")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("optimistic selection never became visible")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(release)
	<-done

	snap := c.Snapshot()
	if snap.Selection.Kind != SelectionConfirmed || snap.Loading {
		t.Errorf("final state: selection=%s loading=%v", snap.Selection.Kind, snap.Loading)
	}
}

func TestOptimisticSelect_NoRollbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			json.NewEncoder(w).Encode(api.StartResponse{SessionID: "sess-1", AssistantMessage: testGreeting})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := api.NewClient(server.URL).WithMaxRetries(1)
	c := NewController(client)
	c.StartSession(context.Background())
	c.SendAircraftSelection(context.Background(), testFleet[1])

	snap := c.Snapshot()
	if snap.Selection.Kind != SelectionConfirmed {
		t.Errorf("Selection = %s, optimistic selection must survive transport failure", snap.Selection.Kind)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if last.Content != FallbackReply {
		t.Errorf("last message = %q, want fallback reply", last.Content)
	}
}

func TestSelectionRequest_CarriesStructuredPayload(t *testing.T) {
	var gotType atomic.Value
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		gotType.Store(req.Type + "/" + req.SelectedAircraft.ID)
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Done.",
			LeadState:        &api.LeadState{SelectedAircraft: req.SelectedAircraft.Name},
		}
	}))
	c.StartSession(context.Background())
	c.SendAircraftSelection(context.Background(), testFleet[0])

	if got := gotType.Load().(string); got != api.MessageTypeAircraftSelected+"/phenom300e" {
		t.Errorf("structured payload = %q", got)
	}
}

// =============================================================================
// PREVIEW
// =============================================================================

func TestPreview_NeverCoexistsWithConfirmed(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Selected.",
			LeadState:        &api.LeadState{SelectedAircraft: "Phenom 300E"},
			Aircraft:         testFleet,
		}
	}))
	c.StartSession(context.Background())

	c.Preview(testFleet[1])
	if got := c.Snapshot().Selection; got.Kind != SelectionPreviewing || got.Aircraft.ID != "g650" {
		t.Fatalf("Selection = %+v, want previewing g650", got)
	}

	// Confirmation closes the preview.
	c.SendMessage(context.Background(), "the Phenom please")
	snap := c.Snapshot()
	if snap.Selection.Kind != SelectionConfirmed || snap.Selection.Aircraft.ID != "phenom300e" {
		t.Errorf("Selection = %+v, want confirmed phenom", snap.Selection)
	}

	// Preview is ignored while confirmed.
	c.Preview(testFleet[1])
	if got := c.Snapshot().Selection.Kind; got != SelectionConfirmed {
		t.Errorf("Selection = %s, preview must not override a confirmation", got)
	}
}

func TestClosePreview(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, echoChat))
	c.Preview(testFleet[0])
	c.ClosePreview()
	if got := c.Snapshot().Selection.Kind; got != SelectionNone {
		t.Errorf("Selection = %s, want none", got)
	}
}

// =============================================================================
// AUTH GATE
// =============================================================================

type staticCreds struct {
	identity *api.UserIdentity
}

func (s *staticCreds) Identity() *api.UserIdentity { return s.identity }

func TestAuthGate_FullInterleave(t *testing.T) {
	creds := &staticCreds{}
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		if req.UserID == "" {
			return api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Please sign in to place the booking.",
				LeadState:        &api.LeadState{SubmissionState: api.SubmissionAwaitingAuth},
				RequiresAuth:     true,
			}
		}
		if req.Message != "yes, book it" {
			return api.ChatResponse{SessionID: req.SessionID, AssistantMessage: "unexpected retry text"}
		}
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Perfect! I've placed the booking request.",
			LeadState:        &api.LeadState{SubmissionState: api.SubmissionConfirmed, Status: api.LeadStatusConfirmed},
			BookingConfirmed: true,
		}
	}), WithCredentialSource(creds))

	c.StartSession(context.Background())
	msg := c.SendMessage(context.Background(), "yes, book it")

	if !msg.RequiresAuth {
		t.Error("assistant message must carry the auth call-to-action flag")
	}
	snap := c.Snapshot()
	if snap.Gate != GatePending {
		t.Fatalf("Gate = %s, want pending", snap.Gate)
	}
	// No extra login-prompt message was appended: greeting + user + assistant.
	if len(snap.Messages) != 3 {
		t.Errorf("log length = %d, want 3", len(snap.Messages))
	}

	// Sign-in completes; the gate resends the last user text.
	creds.identity = &api.UserIdentity{UserID: "u-1", Email: "ava@example.com"}
	retryMsg, ok := c.ResumeAfterAuth(context.Background())
	if !ok {
		t.Fatal("ResumeAfterAuth = false, want retry")
	}
	if !retryMsg.ShowBookingCTA {
		t.Error("retry reply must carry the booking flag")
	}

	snap = c.Snapshot()
	if snap.Gate != GateIdle {
		t.Errorf("Gate = %s, want idle after retry", snap.Gate)
	}
	// Only the assistant reply joined the log, no duplicate user message.
	if len(snap.Messages) != 4 {
		t.Errorf("log length = %d, want 4", len(snap.Messages))
	}
	if snap.Lead.SubmissionState != api.SubmissionConfirmed {
		t.Errorf("SubmissionState = %q, want confirmed", snap.Lead.SubmissionState)
	}
}

func TestAuthGate_OnStructuredSelection(t *testing.T) {
	creds := &staticCreds{}
	var retryText atomic.Value
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		if req.UserID == "" {
			return api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Please sign in to confirm the aircraft.",
				LeadState:        &api.LeadState{SubmissionState: api.SubmissionAwaitingAuth},
				RequiresAuth:     true,
			}
		}
		retryText.Store(req.Message)
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "The Gulfstream G650 is confirmed.",
			LeadState:        &api.LeadState{SelectedAircraft: "Gulfstream G650", SubmissionState: api.SubmissionConfirmed},
		}
	}), WithCredentialSource(creds))

	c.StartSession(context.Background())

	// The card click is the first and only user turn.
	c.SendAircraftSelection(context.Background(), testFleet[1])
	if got := c.Snapshot().Gate; got != GatePending {
		t.Fatalf("Gate = %s, want pending after gated selection", got)
	}

	creds.identity = &api.UserIdentity{UserID: "u-1", Email: "ava@example.com"}
	if _, ok := c.ResumeAfterAuth(context.Background()); !ok {
		t.Fatal("ResumeAfterAuth = false, want a retry of the selection turn")
	}
	if got := retryText.Load(); got != "I'd like the Gulfstream G650" {
		t.Errorf("retry message = %q, want the selection turn's user text", got)
	}
	if got := c.Snapshot().Gate; got != GateIdle {
		t.Errorf("Gate = %s, want idle after retry", got)
	}
}

func TestAuthGate_Dismiss(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Please sign in.",
			RequiresAuth:     true,
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "book it")

	c.DismissAuthPrompt()
	if got := c.Snapshot().Gate; got != GateIdle {
		t.Errorf("Gate = %s, want idle after dismissal", got)
	}

	if _, ok := c.ResumeAfterAuth(context.Background()); ok {
		t.Error("ResumeAfterAuth after dismissal must be a no-op")
	}
}

func TestResumeAfterAuth_NoopWhenIdle(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, echoChat))
	c.StartSession(context.Background())
	if _, ok := c.ResumeAfterAuth(context.Background()); ok {
		t.Error("ResumeAfterAuth with idle gate must be a no-op")
	}
}

// =============================================================================
// RESET
// =============================================================================

func TestReset_ClearsEverything(t *testing.T) {
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Options.",
			LeadState:        &api.LeadState{RouteFrom: "Dubai", SelectedAircraft: "Phenom 300E"},
			Aircraft:         testFleet,
			RequiresAuth:     true,
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "book the Phenom from Dubai")
	c.Reset()

	snap := c.Snapshot()
	if snap.SessionID != "" || len(snap.Messages) != 0 || snap.Loading || snap.Greeted {
		t.Errorf("session state not cleared: %+v", snap)
	}
	if snap.Lead.RouteFrom != "" || snap.Lead.SelectedAircraft != "" {
		t.Errorf("lead not cleared: %+v", snap.Lead)
	}
	if len(snap.Candidates) != 0 || snap.ShowAircraft || snap.CanGoBack {
		t.Error("aircraft state not cleared")
	}
	if snap.Selection.Kind != SelectionNone || snap.Gate != GateIdle {
		t.Errorf("selection=%s gate=%s, want none/idle", snap.Selection.Kind, snap.Gate)
	}
}

func TestReset_DiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			json.NewEncoder(w).Encode(api.StartResponse{SessionID: "sess-1", AssistantMessage: testGreeting})
		case "/chat":
			<-release
			json.NewEncoder(w).Encode(api.ChatResponse{SessionID: "sess-1", AssistantMessage: "late reply"})
		}
	}))
	c.StartSession(context.Background())

	done := make(chan struct{})
	go func() {
		c.SendMessage(context.Background(), "hello")
		close(done)
	}()

	// Wait until the request is in flight.
	deadline := time.After(2 * time.Second)
	for !c.Loading() {
		select {
		case <-deadline:
			t.Fatal("request never became in-flight")
		case <-time.After(5 * time.Millisecond):
		}
	}

	c.Reset()
	close(release)
	<-done

	snap := c.Snapshot()
	if len(snap.Messages) != 0 {
		t.Errorf("late response must be discarded, got %d messages", len(snap.Messages))
	}
	if snap.Loading {
		t.Error("loading must be false after reset")
	}
}

func TestReset_DiscardsInFlightStart(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var starts atomic.Int32
	c := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/start" {
			return
		}
		n := starts.Add(1)
		if n == 1 {
			close(started)
			<-release
		}
		json.NewEncoder(w).Encode(api.StartResponse{
			SessionID:        fmt.Sprintf("sess-%d", n),
			AssistantMessage: testGreeting,
		})
	}))

	done := make(chan struct{})
	go func() {
		c.StartSession(context.Background())
		close(done)
	}()

	<-started
	c.Reset()
	close(release)
	<-done

	snap := c.Snapshot()
	if snap.SessionID != "" {
		t.Errorf("SessionID = %q, stale start response must be discarded", snap.SessionID)
	}
	if len(snap.Messages) != 0 || snap.Greeted {
		t.Error("stale greeting must not be installed after reset")
	}
	if snap.Loading {
		t.Error("loading must stay false after reset")
	}

	// The next start opens a fresh session normally.
	c.StartSession(context.Background())
	if got := c.Snapshot().SessionID; got != "sess-2" {
		t.Errorf("SessionID = %q, want sess-2", got)
	}
}

// =============================================================================
// BROWSE HEURISTIC + HISTORY
// =============================================================================

func TestBrowseHeuristic_ClearsConfirmedBeforeSend(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			json.NewEncoder(w).Encode(api.StartResponse{SessionID: "sess-1", AssistantMessage: testGreeting})
		case "/chat":
			var req api.ChatRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Type == api.MessageTypeAircraftSelected {
				json.NewEncoder(w).Encode(api.ChatResponse{
					SessionID:        "sess-1",
					AssistantMessage: "Selected.",
					LeadState:        &api.LeadState{SelectedAircraft: "Phenom 300E"},
				})
				return
			}
			<-release
			json.NewEncoder(w).Encode(api.ChatResponse{
				SessionID:        "sess-1",
				AssistantMessage: "Other options below.",
				LeadState:        &api.LeadState{},
				ShowAircraft:     true,
				Aircraft:         testFleet,
			})
		}
	}))
	c.StartSession(context.Background())
	c.SendAircraftSelection(context.Background(), testFleet[0])

	done := make(chan struct{})
	go func() {
		c.SendMessage(context.Background(), "show me other options")
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		snap := c.Snapshot()
		if snap.Loading && snap.Selection.Kind == SelectionNone {
			break // cleared optimistically before the response arrived
		}
		select {
		case <-deadline:
			t.Fatal("confirmed selection was not cleared proactively")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(release)
	<-done
}

func TestHistory_StepBack(t *testing.T) {
	listA := []api.Aircraft{testFleet[0]}
	listB := []api.Aircraft{testFleet[1]}
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		list := listA
		if n == 2 {
			list = listB
		}
		return api.ChatResponse{
			SessionID:        req.SessionID,
			AssistantMessage: "Options.",
			LeadState:        &api.LeadState{},
			ShowAircraft:     true,
			Aircraft:         list,
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "options for a light jet")
	c.SendMessage(context.Background(), "bigger ones")

	snap := c.Snapshot()
	if !snap.CanGoBack {
		t.Fatal("CanGoBack = false, want true after two lists")
	}
	if snap.Candidates[0].ID != "g650" {
		t.Fatalf("current list = %+v", snap.Candidates)
	}

	if !c.ShowPreviousAircraft() {
		t.Fatal("ShowPreviousAircraft = false")
	}
	snap = c.Snapshot()
	if snap.Candidates[0].ID != "phenom300e" || !snap.ShowAircraft {
		t.Errorf("after step back: %+v", snap.Candidates)
	}
	if snap.CanGoBack {
		t.Error("CanGoBack must be false at the oldest list")
	}
	if c.ShowPreviousAircraft() {
		t.Error("stepping past the oldest list must fail")
	}
}

func TestNavigationPrevious_FromServer(t *testing.T) {
	listA := []api.Aircraft{testFleet[0]}
	listB := []api.Aircraft{testFleet[1]}
	c := newTestController(t, conciergeHandler(t, nil, func(n int, req api.ChatRequest) api.ChatResponse {
		switch n {
		case 1:
			return api.ChatResponse{SessionID: req.SessionID, AssistantMessage: "A", LeadState: &api.LeadState{}, ShowAircraft: true, Aircraft: listA}
		case 2:
			return api.ChatResponse{SessionID: req.SessionID, AssistantMessage: "B", LeadState: &api.LeadState{}, ShowAircraft: true, Aircraft: listB}
		default:
			// Backend recognizes "previous" but sends no list; the
			// client steps its own history.
			return api.ChatResponse{
				SessionID:        req.SessionID,
				AssistantMessage: "Bringing back the earlier options.",
				LeadState:        &api.LeadState{},
				ShowAircraft:     true,
				NavigationIntent: api.NavigationPrevious,
			}
		}
	}))
	c.StartSession(context.Background())
	c.SendMessage(context.Background(), "light jets")
	c.SendMessage(context.Background(), "bigger")
	c.SendMessage(context.Background(), "go back to the previous list")

	snap := c.Snapshot()
	if len(snap.Candidates) != 1 || snap.Candidates[0].ID != "phenom300e" {
		t.Errorf("candidates after previous = %+v", snap.Candidates)
	}
	if !snap.ShowAircraft {
		t.Error("cards must be visible after history navigation")
	}
}
