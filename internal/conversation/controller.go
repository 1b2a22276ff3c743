// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

// Fallback assistant lines used when the backend is unreachable. The
// chat must never be empty or frozen, so transport failures degrade to
// a plausible in-character reply and input is re-enabled immediately.
const (
	// FallbackGreeting seeds the log when the start endpoint fails.
	FallbackGreeting = "Good evening. Welcome to Jetayu Private Aviation. How may I assist you with your travel arrangements today?"

	// FallbackReply is appended when a chat turn fails in transport.
	FallbackReply = "I'd be happy to help with that. Could you tell me more about your flight requirements?"
)

// maxHistory bounds the candidate-list history kept for back navigation.
const maxHistory = 20

// CredentialSource supplies the authenticated visitor's identity fields
// for outbound requests, or nil when anonymous. The bearer token itself
// travels separately through the API client's token source.
type CredentialSource interface {
	Identity() *api.UserIdentity
}

// Snapshot is a consistent copy of the conversation state for rendering.
// Mutating a snapshot has no effect on the controller.
type Snapshot struct {
	SessionID     string
	Messages      []Message
	Loading       bool
	Greeted       bool
	Lead          api.LeadState
	MissingFields []string
	Candidates    []api.Aircraft
	ShowAircraft  bool
	Selection     Selection
	Gate          GateState
	CanGoBack     bool
}

// Controller owns one concierge conversation.
//
// All mutation funnels through its operations; no other component may
// touch the message log or session identifier. The loading flag is a
// cooperative lock: callers must disable input while it is true, the
// controller does not queue or deduplicate overlapping sends.
type Controller struct {
	mu     sync.Mutex
	client *api.Client
	creds  CredentialSource

	sessionID string
	// epoch increments on every Reset; responses that left before the
	// reset compare it and get discarded on arrival.
	epoch    uint64
	messages []Message
	nextID   int64
	loading  bool
	greeted  bool

	lead          api.LeadState
	missingFields []string

	candidates   []api.Aircraft
	showAircraft bool
	history      [][]api.Aircraft
	historyIdx   int

	selection Selection

	gate             GateState
	pendingSessionID string
	lastUserText     string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithCredentialSource attaches the identity collaborator consulted for
// the optional user fields on outbound requests.
func WithCredentialSource(cs CredentialSource) ControllerOption {
	return func(c *Controller) {
		c.creds = cs
	}
}

// NewController creates a conversation controller backed by client.
func NewController(client *api.Client, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:     client,
		selection:  selectionNone(),
		gate:       GateIdle,
		historyIdx: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// StartSession ensures a session exists and the log carries a greeting.
//
// Idempotent: a second call without an intervening Reset performs no
// network call and appends nothing. On transport failure the fixed
// fallback greeting is seeded locally and no error is returned; the
// next send will attempt to open a session again.
func (c *Controller) StartSession(ctx context.Context) {
	c.mu.Lock()
	if c.sessionID != "" || c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	epoch := c.epoch
	identity := c.identityLocked()
	c.mu.Unlock()

	resp, err := c.client.StartSession(ctx, identity)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		// Reset happened while /start was in flight. The session id and
		// loading flag now belong to the fresh conversation; installing
		// the stale session would clobber it.
		return
	}
	c.loading = false

	if err != nil {
		log.Printf("conversation: start failed: %v", err)
		if !c.greeted {
			c.appendLocked(RoleAssistant, FallbackGreeting, messageFlags{})
			c.greeted = true
		}
		return
	}

	c.sessionID = resp.SessionID
	if !c.greeted {
		c.appendLocked(RoleAssistant, resp.AssistantMessage, messageFlags{})
		c.greeted = true
	}
}

// Reset clears the session identifier, message log, loading flag, lead
// snapshot, and all aircraft and selection state atomically. A response
// still in flight for the old session is discarded when it lands.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.sessionID = ""
	c.messages = nil
	c.loading = false
	c.greeted = false
	c.lead = api.LeadState{}
	c.missingFields = nil
	c.candidates = nil
	c.showAircraft = false
	c.history = nil
	c.historyIdx = -1
	c.selection = selectionNone()
	c.gate = GateIdle
	c.pendingSessionID = ""
	c.lastUserText = ""
}

// =============================================================================
// SENDING
// =============================================================================

// SendMessage sends free text: the user message is appended immediately
// (optimistic), a session is opened first if none exists, and the
// response is merged into state. Transport failures degrade to the
// fixed fallback reply; no error ever reaches the caller.
//
// The returned message is the assistant reply appended for this turn.
func (c *Controller) SendMessage(ctx context.Context, text string) Message {
	c.mu.Lock()
	c.appendLocked(RoleUser, text, messageFlags{})
	c.loading = true
	c.lastUserText = text

	// Perceived-latency optimization only: when the text reads like a
	// request to browse alternatives, clear a confirmed selection now
	// instead of waiting a round trip. The response still wins.
	if c.selection.Kind == SelectionConfirmed && looksLikeBrowseRequest(text) {
		c.selection = selectionNone()
	}
	c.mu.Unlock()

	c.ensureSession(ctx)

	return c.dispatch(ctx, text, "", nil)
}

// SendAircraftSelection confirms an aircraft choice as a structured
// action, bypassing natural-language interpretation. The selection is
// applied optimistically before the request is sent: confirmed state
// set, preview cleared, suggestion cards hidden. There is no rollback
// on transport failure; the next response reconciles to server truth.
func (c *Controller) SendAircraftSelection(ctx context.Context, aircraft api.Aircraft) Message {
	text := fmt.Sprintf("I'd like the %s", aircraft.Name)

	c.mu.Lock()
	copied := aircraft
	c.selection = Selection{Kind: SelectionConfirmed, Aircraft: &copied}
	c.showAircraft = false
	c.appendLocked(RoleUser, text, messageFlags{})
	c.loading = true
	// The gate replays the last user message, so a structured turn must
	// record its text too or an auth-gated selection would retry the
	// wrong turn.
	c.lastUserText = text
	c.mu.Unlock()

	c.ensureSession(ctx)

	return c.dispatch(ctx, text, api.MessageTypeAircraftSelected, &api.AircraftRef{
		ID:   aircraft.ID,
		Name: aircraft.Name,
	})
}

// ensureSession opens a session if none is held. Used by the send paths
// so typing into a degraded (fallback-greeted) chat still works.
func (c *Controller) ensureSession(ctx context.Context) {
	c.mu.Lock()
	missing := c.sessionID == ""
	epoch := c.epoch
	identity := c.identityLocked()
	c.mu.Unlock()
	if !missing {
		return
	}

	resp, err := c.client.StartSession(ctx, identity)
	if err != nil {
		log.Printf("conversation: lazy start failed: %v", err)
		return
	}

	c.mu.Lock()
	if c.epoch == epoch && c.sessionID == "" {
		c.sessionID = resp.SessionID
		if !c.greeted {
			c.appendLocked(RoleAssistant, resp.AssistantMessage, messageFlags{})
			c.greeted = true
		}
	}
	c.mu.Unlock()
}

// dispatch performs one chat turn and merges the response. The mutex is
// released around the network call; a Reset during flight changes the
// session id and the stale response is discarded.
func (c *Controller) dispatch(ctx context.Context, text, msgType string, selected *api.AircraftRef) Message {
	c.mu.Lock()
	sessionID := c.sessionID
	epoch := c.epoch
	identity := c.identityLocked()
	c.mu.Unlock()

	req := &api.ChatRequest{
		SessionID:        sessionID,
		Message:          text,
		Type:             msgType,
		SelectedAircraft: selected,
	}
	if identity != nil {
		req.UserIdentity = *identity
	}

	resp, err := c.client.Chat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch || c.sessionID != sessionID {
		// Reset happened while the request was in flight.
		return Message{}
	}
	c.loading = false

	if err != nil {
		log.Printf("conversation: chat failed: %v", err)
		return c.appendLocked(RoleAssistant, FallbackReply, messageFlags{})
	}

	return c.applyResponseLocked(resp)
}

// messageFlags carries the response-derived flags for a new message.
type messageFlags struct {
	requiresAuth   bool
	showBookingCTA bool
}

// appendLocked appends a message to the log. Caller holds c.mu.
func (c *Controller) appendLocked(role Role, content string, flags messageFlags) Message {
	c.nextID++
	msg := Message{
		ID:             c.nextID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now(),
		IsNew:          true,
		RequiresAuth:   flags.requiresAuth,
		ShowBookingCTA: flags.showBookingCTA,
	}
	c.messages = append(c.messages, msg)
	return msg
}

// =============================================================================
// RESPONSE RECONCILIATION
// =============================================================================

// applyResponseLocked merges one chat response into state. Caller holds
// c.mu. Order matters: the lead snapshot is replaced first because the
// selection reconciliation reads it.
func (c *Controller) applyResponseLocked(resp *api.ChatResponse) Message {
	if resp.SessionID != "" {
		c.sessionID = resp.SessionID
	}
	if resp.LeadState != nil {
		c.lead = *resp.LeadState
	}
	c.missingFields = resp.MissingFields

	c.reconcileSelectionLocked(resp)

	if resp.RequiresAuth {
		c.gate = GatePending
		c.pendingSessionID = c.sessionID
	}

	return c.appendLocked(RoleAssistant, resp.AssistantMessage, messageFlags{
		requiresAuth:   resp.RequiresAuth,
		showBookingCTA: resp.BookingConfirmed,
	})
}

// reconcileSelectionLocked computes the tagged-union selection state
// from the response. Server state always wins on arrival; optimistic
// local state only holds between a click and the next response.
func (c *Controller) reconcileSelectionLocked(resp *api.ChatResponse) {
	if c.lead.SelectedAircraft != "" {
		// Rule 1: the lead names a selected aircraft. Confirm it, close
		// any preview, hide the suggestion cards.
		var previous *api.Aircraft
		if c.selection.Kind == SelectionConfirmed {
			previous = c.selection.Aircraft
		}
		c.selection = Selection{
			Kind:     SelectionConfirmed,
			Aircraft: resolveConfirmed(c.lead.SelectedAircraft, resp.Aircraft, c.candidates, c.history, previous),
		}
		if len(resp.Aircraft) > 0 {
			c.candidates = resp.Aircraft
			c.pushHistoryLocked(resp.Aircraft)
		}
		c.showAircraft = false
		return
	}

	// Rule 2: no selected aircraft in the lead. A confirmed selection is
	// cleared; a preview survives until rule 1 or explicit dismissal.
	if c.selection.Kind == SelectionConfirmed {
		c.selection = selectionNone()
	}

	// Local back navigation: the backend signals "previous" without
	// resending the list; the client steps its own history pointer.
	if resp.NavigationIntent == api.NavigationPrevious && len(resp.Aircraft) == 0 {
		c.stepHistoryBackLocked()
		return
	}

	if resp.ShowAircraft && len(resp.Aircraft) > 0 {
		c.candidates = resp.Aircraft
		c.showAircraft = true
		c.pushHistoryLocked(resp.Aircraft)
	} else if !resp.ShowAircraft {
		c.showAircraft = false
	}
}

// pushHistoryLocked records a shown candidate list for back navigation.
func (c *Controller) pushHistoryLocked(list []api.Aircraft) {
	copied := make([]api.Aircraft, len(list))
	copy(copied, list)
	c.history = append(c.history, copied)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	c.historyIdx = len(c.history) - 1
}

// stepHistoryBackLocked moves the history pointer one list back.
func (c *Controller) stepHistoryBackLocked() bool {
	if c.historyIdx <= 0 {
		return false
	}
	c.historyIdx--
	c.candidates = c.history[c.historyIdx]
	c.showAircraft = true
	return true
}

// ShowPreviousAircraft steps back to the previously shown candidate
// list without a network call. Returns false when no earlier list
// exists or an aircraft is confirmed.
func (c *Controller) ShowPreviousAircraft() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.Kind == SelectionConfirmed {
		return false
	}
	return c.stepHistoryBackLocked()
}

// =============================================================================
// PREVIEW
// =============================================================================

// Preview marks an aircraft as being browsed. Pure client state, no
// backend round trip. Ignored while a selection is confirmed.
func (c *Controller) Preview(aircraft api.Aircraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.Kind == SelectionConfirmed {
		return
	}
	copied := aircraft
	c.selection = Selection{Kind: SelectionPreviewing, Aircraft: &copied}
}

// ClosePreview dismisses an open preview. A confirmed selection is
// untouched.
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.Kind == SelectionPreviewing {
		c.selection = selectionNone()
	}
}

// =============================================================================
// AUTH GATE
// =============================================================================

// DismissAuthPrompt discards a pending authentication request. The
// backend stays in its own awaiting-authentication state; the
// conversation continues and no retry happens until the visitor
// re-triggers confirmation.
func (c *Controller) DismissAuthPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gate == GatePending {
		c.gate = GateIdle
		c.pendingSessionID = ""
	}
}

// ResumeAfterAuth resends the last user message now that credentials
// exist. Free text is resent, not the structured payload, so the
// backend re-derives the confirmation with the new identity attached.
// No duplicate user message is appended; only the retry's assistant
// reply joins the log.
//
// Returns false when the gate is not pending or the pending session no
// longer matches (a reset intervened). Callers invoke this on explicit
// sign-in completion and on out-of-band sign-in events alike.
func (c *Controller) ResumeAfterAuth(ctx context.Context) (Message, bool) {
	c.mu.Lock()
	if c.gate != GatePending || c.pendingSessionID != c.sessionID || c.lastUserText == "" {
		c.mu.Unlock()
		return Message{}, false
	}
	c.gate = GateRetrying
	c.loading = true
	text := c.lastUserText
	sessionID := c.sessionID
	epoch := c.epoch
	identity := c.identityLocked()
	c.mu.Unlock()

	req := &api.ChatRequest{
		SessionID: sessionID,
		Message:   text,
	}
	if identity != nil {
		req.UserIdentity = *identity
	}

	resp, err := c.client.Chat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch || c.sessionID != sessionID {
		// Reset intervened; it already re-idled the gate and every other
		// field, so the stale retry must not touch state.
		return Message{}, false
	}
	c.loading = false
	c.gate = GateIdle
	c.pendingSessionID = ""

	if err != nil {
		log.Printf("conversation: auth retry failed: %v", err)
		return c.appendLocked(RoleAssistant, FallbackReply, messageFlags{}), true
	}

	return c.applyResponseLocked(resp), true
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Snapshot returns a consistent copy of the conversation state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		SessionID:     c.sessionID,
		Loading:       c.loading,
		Greeted:       c.greeted,
		Lead:          c.lead,
		ShowAircraft:  c.showAircraft,
		Selection:     c.selection,
		Gate:          c.gate,
		CanGoBack:     c.historyIdx > 0,
		Messages:      make([]Message, len(c.messages)),
		MissingFields: append([]string(nil), c.missingFields...),
		Candidates:    append([]api.Aircraft(nil), c.candidates...),
	}
	copy(snap.Messages, c.messages)
	if c.selection.Aircraft != nil {
		copied := *c.selection.Aircraft
		snap.Selection.Aircraft = &copied
	}
	return snap
}

// Loading reports whether a request is in flight. The UI must disable
// input while true; this is the only overlap control.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// GateIsPending reports whether authentication is being waited on.
func (c *Controller) GateIsPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate == GatePending
}

// identityLocked reads the credential source. Caller holds c.mu, or is
// on a path where racing a sign-in merely staggers identity by a turn.
func (c *Controller) identityLocked() *api.UserIdentity {
	if c.creds == nil {
		return nil
	}
	return c.creds.Identity()
}
