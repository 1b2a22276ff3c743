// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared application wiring.
//
// Both the TUI and the plain REPL run on the same stack: config, API
// client, identity service, telemetry store, conversation controller.
// BuildApp assembles it once so the two front ends cannot drift.

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/identity"
	"github.com/mohanraghava-higherself/jetayuV1/internal/telemetry"
)

// App bundles the wired collaborators for one process.
type App struct {
	Config     *config.Config
	Client     *api.Client
	Identity   *identity.Service
	Metrics    *telemetry.Store
	Controller *conversation.Controller
}

// sessionCreds adapts the identity service to the controller's
// credential source. It re-reads the session every turn so a sign-in
// mid-conversation takes effect on the next request.
type sessionCreds struct {
	svc *identity.Service
}

func (c *sessionCreds) Identity() *api.UserIdentity {
	if c.svc == nil {
		return nil
	}
	sess := c.svc.CurrentSession()
	if sess == nil {
		return nil
	}
	return sess.APIIdentity()
}

// BuildApp loads configuration and wires the full application stack.
func BuildApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return BuildAppWith(cfg)
}

// BuildAppWith wires the stack on top of an already loaded config.
func BuildAppWith(cfg *config.Config) (*App, error) {
	client := api.NewClient(cfg.Backend.URL).
		WithTimeout(time.Duration(cfg.Backend.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.Backend.MaxRetries)
	if cfg.Backend.UserAgent != "" {
		client = client.WithUserAgent(cfg.Backend.UserAgent)
	}

	// Identity is optional; without a provider URL the concierge simply
	// never completes a booking gate.
	var identityOpts []identity.Option
	if cache, err := identity.NewSessionCache(cfg.Identity.CacheDir); err == nil {
		identityOpts = append(identityOpts, identity.WithCache(cache))
	}
	if cfg.Identity.TOTPSecret != "" {
		identityOpts = append(identityOpts, identity.WithTOTPSecret(cfg.Identity.TOTPSecret))
	}
	ident := identity.NewService(cfg.Identity.URL, cfg.Identity.AnonKey, identityOpts...)
	ident.RestoreCached()

	client = client.WithTokenSource(ident.AccessToken)

	// Telemetry is local-only and best effort. A broken database must
	// never keep the concierge from answering.
	var metrics *telemetry.Store
	if cfg.Telemetry.Enabled {
		store, err := telemetry.Open(cfg.Telemetry.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
		} else {
			metrics = store
			client = client.WithObserver(func(m api.RequestMetric) {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = store.Record(ctx, m)
			})
		}
	}

	ctrl := conversation.NewController(client,
		conversation.WithCredentialSource(&sessionCreds{svc: ident}))

	return &App{
		Config:     cfg,
		Client:     client,
		Identity:   ident,
		Metrics:    metrics,
		Controller: ctrl,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Metrics != nil {
		_ = a.Metrics.Close()
	}
}
