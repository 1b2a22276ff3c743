// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	metrics := []api.RequestMetric{
		{RequestID: "r1", Endpoint: "/start", Status: 200, Duration: 100 * time.Millisecond},
		{RequestID: "r2", Endpoint: "/chat", Status: 200, Duration: 200 * time.Millisecond},
		{RequestID: "r3", Endpoint: "/chat", Status: 200, Duration: 300 * time.Millisecond},
		{RequestID: "r4", Endpoint: "/chat", Status: 502, Duration: 50 * time.Millisecond, Err: "server_error"},
	}
	for _, m := range metrics {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want 4", stats.TotalRequests)
	}
	if stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
	if stats.P50Latency != 100*time.Millisecond {
		t.Errorf("P50Latency = %v, want 100ms", stats.P50Latency)
	}
	if stats.P95Latency != 300*time.Millisecond {
		t.Errorf("P95Latency = %v, want 300ms", stats.P95Latency)
	}

	if len(stats.Endpoints) != 2 {
		t.Fatalf("Endpoints = %d, want 2", len(stats.Endpoints))
	}
	// Ordered by count descending.
	if stats.Endpoints[0].Endpoint != "/chat" || stats.Endpoints[0].Count != 3 || stats.Endpoints[0].Failures != 1 {
		t.Errorf("chat stats = %+v", stats.Endpoints[0])
	}
	if stats.Endpoints[1].Endpoint != "/start" || stats.Endpoints[1].Count != 1 {
		t.Errorf("start stats = %+v", stats.Endpoints[1])
	}
}

func TestStats_Empty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRequests != 0 || stats.P50Latency != 0 || stats.P95Latency != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestObserver_RecordsMetric(t *testing.T) {
	store := openTestStore(t)

	observe := store.Observer()
	observe(api.RequestMetric{RequestID: "r1", Endpoint: "/chat", Status: 200, Duration: 42 * time.Millisecond})

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", stats.TotalRequests)
	}
}

func TestPrune_RemovesOldRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, api.RequestMetric{RequestID: "old", Endpoint: "/chat", Status: 200}); err != nil {
		t.Fatal(err)
	}
	// Backdate the row beyond the retention window.
	stale := time.Now().Add(-48 * time.Hour).Unix()
	if _, err := store.db.Exec("UPDATE requests SET created_at = ?", stale); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, api.RequestMetric{RequestID: "fresh", Endpoint: "/chat", Status: 200}); err != nil {
		t.Fatal(err)
	}

	pruned, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRequests != 1 {
		t.Errorf("TotalRequests after prune = %d, want 1", stats.TotalRequests)
	}
}

func TestClosedStore(t *testing.T) {
	store := openTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := store.Record(context.Background(), api.RequestMetric{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Record after close = %v, want ErrClosed", err)
	}
	if _, err := store.Stats(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Stats after close = %v, want ErrClosed", err)
	}
	// Double close is a no-op.
	if err := store.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestPercentileIndex(t *testing.T) {
	tests := []struct {
		n, pct, want int
	}{
		{1, 50, 0},
		{1, 95, 0},
		{4, 50, 1},
		{4, 95, 3},
		{100, 50, 49},
		{100, 95, 94},
	}
	for _, tt := range tests {
		if got := percentileIndex(tt.n, tt.pct); got != tt.want {
			t.Errorf("percentileIndex(%d, %d) = %d, want %d", tt.n, tt.pct, got, tt.want)
		}
	}
}

// Ensure the driver registers under the expected name.
func TestDriverAvailable(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "probe.db"))
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	db.Close()
}
