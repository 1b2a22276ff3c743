// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual UI components for the Jetayu TUI.

Each component is a self-contained Bubble Tea citizen: it holds its own
state, exposes Update/View where it participates in the event loop, and
renders through the shared styles.Theme so light and dark terminals both
look right.

# Components

  - MessageBubble - Styled chat bubbles for traveler and concierge messages,
    with optional Markdown rendering for concierge replies
  - AircraftDeck - The aircraft suggestion card strip with keyboard focus,
    detail preview, and confirmed-selection highlighting
  - AuthPrompt - Inline sign-in form shown when a booking requires an account
  - InputArea - Message input with character counter and command hinting
  - Spinner / ComposingIndicator - Loading states while the concierge replies
  - StatusBar - Session, sign-in, and itinerary progress at a glance
  - Header / Welcome - Branding chrome
  - ToastManager - Non-blocking corner notifications that auto-dismiss
  - CompletionPopup - Slash-command completion list

# Accessibility

Status states always pair color with an ASCII shape indicator from
styles.StatusIndicators so colorblind users can distinguish them.
*/
package components
