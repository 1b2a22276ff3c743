// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records local request metrics for the concierge
// client.
//
// Metrics are metadata only (endpoint, status code, latency, error
// label) and never include message content, identity fields, or
// credentials. Everything stays in a local SQLite database; nothing is
// transmitted anywhere.
//
// # Usage
//
// Open a store and wire it to the API client:
//
//	store, err := telemetry.Open(dbPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	client := api.NewClient(baseURL).WithObserver(store.Observer())
//
// Summarize recorded requests:
//
//	stats, err := store.Stats(ctx)
package telemetry
