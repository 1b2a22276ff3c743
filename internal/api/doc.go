// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Jetayu concierge backend.
//
// The backend exposes two endpoints: POST /start opens a conversation
// session and returns the greeting, POST /chat advances the conversation
// with either free text or a structured aircraft selection. This package
// owns the wire types for both, the retry and rate-limiting policy, and
// the secure request/response logging.
//
// API: Secure logging, retry logic, and response size limits
package api
