// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// Message types for structured chat requests. Free-text messages carry an
// empty type; structured actions name the action they encode.
const (
	// MessageTypeAircraftSelected marks a request that confirms an
	// aircraft choice instead of carrying free text.
	MessageTypeAircraftSelected = "AIRCRAFT_SELECTED"
)

// Navigation intents the backend may attach to a chat response when the
// user asked to move within the aircraft catalogue rather than change
// their requirements.
const (
	NavigationBigger      = "AIRCRAFT_BIGGER"
	NavigationSmaller     = "AIRCRAFT_SMALLER"
	NavigationRecommended = "AIRCRAFT_RECOMMENDED"
	NavigationPrevious    = "AIRCRAFT_PREVIOUS"
)

// Lead lifecycle status values.
const (
	LeadStatusDraft     = "draft"
	LeadStatusConfirmed = "confirmed"
	LeadStatusContacted = "contacted"
)

// Lead submission states. The lead moves from collecting to awaiting_auth
// when all required fields are present but the visitor is anonymous, and
// to confirmed once an authenticated submission succeeds.
const (
	SubmissionCollecting   = "collecting"
	SubmissionAwaitingAuth = "awaiting_auth"
	SubmissionConfirmed    = "confirmed"
)

// UserIdentity carries the optional authenticated-user fields attached to
// start and chat requests. All fields are omitted when the visitor is
// anonymous.
type UserIdentity struct {
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// AircraftRef identifies a chosen aircraft in a structured selection
// request. Only the id and display name cross the wire.
type AircraftRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pricing is the estimate band attached to an aircraft suggestion.
type Pricing struct {
	EstimateLow  float64 `json:"estimate_low"`
	EstimateHigh float64 `json:"estimate_high"`
	Currency     string  `json:"currency"`
	Note         string  `json:"note,omitempty"`
}

// Aircraft is a single catalogue entry suggested by the backend.
type Aircraft struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Manufacturer   string   `json:"manufacturer"`
	Category       string   `json:"category"`
	Capacity       int      `json:"capacity"`
	RangeNM        int      `json:"range_nm"`
	SpeedKPH       int      `json:"speed_kph"`
	Description    string   `json:"description"`
	Features       []string `json:"features,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	InteriorImages []string `json:"interior_images,omitempty"`
	Pricing        *Pricing `json:"pricing,omitempty"`
}

// LeadState is the backend's authoritative snapshot of the lead under
// construction. The client replaces its copy wholesale on every response
// and never merges fields locally.
type LeadState struct {
	Name             string   `json:"name,omitempty"`
	Email            string   `json:"email,omitempty"`
	DateTime         string   `json:"date_time,omitempty"`
	RouteFrom        string   `json:"route_from,omitempty"`
	RouteTo          string   `json:"route_to,omitempty"`
	Pax              int      `json:"pax,omitempty"`
	SpecialRequests  []string `json:"special_requests,omitempty"`
	SelectedAircraft string   `json:"selected_aircraft,omitempty"`
	Status           string   `json:"status,omitempty"`
	SubmissionState  string   `json:"submission_state,omitempty"`
	UserID           string   `json:"user_id,omitempty"`
}

// StartRequest opens a new conversation session. Identity fields are
// optional and only present for signed-in visitors.
type StartRequest struct {
	UserIdentity
}

// StartResponse is the backend's answer to a session start.
type StartResponse struct {
	SessionID        string `json:"session_id"`
	AssistantMessage string `json:"assistant_message"`
}

// ChatRequest advances an existing conversation session. Exactly one of
// Message (free text) or SelectedAircraft (with Type set to
// MessageTypeAircraftSelected) drives the turn.
type ChatRequest struct {
	SessionID        string       `json:"session_id"`
	Message          string       `json:"message"`
	Type             string       `json:"type,omitempty"`
	SelectedAircraft *AircraftRef `json:"selected_aircraft,omitempty"`
	UserIdentity
}

// ChatResponse is a full conversation turn from the backend. Absent
// fields decode to zero values; callers must tolerate any subset.
type ChatResponse struct {
	SessionID        string     `json:"session_id"`
	AssistantMessage string     `json:"assistant_message"`
	LeadState        *LeadState `json:"lead_state,omitempty"`
	MissingFields    []string   `json:"missing_fields,omitempty"`
	ShowAircraft     bool       `json:"show_aircraft"`
	Aircraft         []Aircraft `json:"aircraft,omitempty"`
	NavigationIntent string     `json:"aircraft_navigation_intent,omitempty"`
	BookingConfirmed bool       `json:"booking_confirmed"`
	RequiresAuth     bool       `json:"requires_auth"`
}

// apiErrorResponse is the error envelope the backend returns on failures.
type apiErrorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
