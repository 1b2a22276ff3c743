// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity integrates with the hosted identity provider used by
// the Jetayu backend.
//
// The provider exposes a GoTrue-style HTTP API: password grant for
// sign-in, an optional TOTP verification step, and a user endpoint for
// token validation. The rest of the application treats this package as
// an opaque credential oracle: it asks for the current access token and
// subscribes to sign-in/sign-out events, and never inspects tokens.
//
// Sessions are cached on disk encrypted with AES-256-GCM so a sign-in
// survives process restarts without re-prompting for the password.
package identity
