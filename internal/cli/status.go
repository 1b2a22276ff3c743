// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Health overview for the jetayu stack.
//
// Command: status
// Short:   Backend, identity, and metrics health
// Aliases: s
//
// Sections:
//   Backend:   configured URL and reachability
//   Identity:  provider configuration and the cached session
//   Metrics:   request counts and latency from the local store
//
// Flags:
//   --json              Output in JSON format

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// HandleStatus prints the health overview.
func HandleStatus(args Args) error {
	app, err := BuildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	backendOK, backendNote := probeBackend(app)

	sess := app.Identity.CurrentSession()
	signedIn := sess != nil && sess.IsValid()

	if args.JSON {
		out := map[string]any{
			"backend": map[string]any{
				"url":       app.Config.Backend.URL,
				"reachable": backendOK,
				"note":      backendNote,
			},
			"identity": map[string]any{
				"configured": app.Identity.IsConfigured(),
				"signed_in":  signedIn,
			},
		}
		if app.Metrics != nil {
			if stats, err := app.Metrics.Stats(context.Background()); err == nil {
				out["metrics"] = map[string]any{
					"requests":       stats.TotalRequests,
					"failures":       stats.Failures,
					"avg_latency_ms": stats.AvgLatency.Milliseconds(),
					"p95_latency_ms": stats.P95Latency.Milliseconds(),
				}
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(promptStyle.Render("Jetayu status"))

	fmt.Println(infoStyle.Render("Backend"))
	fmt.Printf("  URL        %s\n", app.Config.Backend.URL)
	if backendOK {
		fmt.Printf("  Reachable  yes\n")
	} else {
		fmt.Printf("  Reachable  %s\n", warnStyle.Render("no ("+backendNote+")"))
	}

	fmt.Println(infoStyle.Render("Identity"))
	if !app.Identity.IsConfigured() {
		fmt.Println("  Provider   not configured")
	} else if signedIn {
		fmt.Printf("  Session    %s (expires in %s)\n", sess.Email, sess.TimeRemaining().Round(time.Minute))
	} else {
		fmt.Println("  Session    none (jetayu auth login)")
	}

	if app.Metrics != nil {
		if stats, err := app.Metrics.Stats(context.Background()); err == nil {
			fmt.Println(infoStyle.Render("Metrics"))
			fmt.Printf("  Requests   %d (%d failed)\n", stats.TotalRequests, stats.Failures)
			fmt.Printf("  Latency    avg %s, p95 %s\n",
				stats.AvgLatency.Round(time.Millisecond), stats.P95Latency.Round(time.Millisecond))
		}
	}

	return nil
}

// probeBackend checks whether the concierge answers at all. Any HTTP
// response counts as reachable; only transport failures do not.
func probeBackend(app *App) (bool, string) {
	if !app.Client.IsConfigured() {
		return false, "no backend URL configured"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.Client.BaseURL()+"/", nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err.Error()
	}
	resp.Body.Close()
	return true, ""
}
