// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

// =============================================================================
// SCHEMA
// =============================================================================

// schema holds one row per API request. The error column is a short
// classification label, never a full error string, so nothing sensitive
// can leak into it.
const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT NOT NULL,
	endpoint    TEXT NOT NULL,
	status      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at);
CREATE INDEX IF NOT EXISTS idx_requests_endpoint ON requests(endpoint);
`

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("telemetry: store is closed")

// =============================================================================
// STORE
// =============================================================================

// Store persists request metrics in a local SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default telemetry database location.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".jetayu", "telemetry.db"), nil
}

// Open opens (creating if necessary) the metrics database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record persists one request metric.
func (s *Store) Record(ctx context.Context, m api.RequestMetric) error {
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (request_id, endpoint, status, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.RequestID, m.Endpoint, m.Status, m.Duration.Milliseconds(), m.Err, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record metric: %w", err)
	}
	return nil
}

// Observer adapts the store to the API client's observer hook. Insert
// failures are swallowed: telemetry must never break a conversation.
func (s *Store) Observer() func(api.RequestMetric) {
	return func(m api.RequestMetric) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Record(ctx, m)
	}
}

// Prune deletes metrics older than the retention window.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	cutoff := time.Now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM requests WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune metrics: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// SUMMARIES
// =============================================================================

// EndpointStats summarizes requests against a single endpoint.
type EndpointStats struct {
	Endpoint string
	Count    int64
	Failures int64
}

// Stats is an aggregate view of all recorded requests.
type Stats struct {
	TotalRequests int64
	Failures      int64
	AvgLatency    time.Duration
	P50Latency    time.Duration
	P95Latency    time.Duration
	Endpoints     []EndpointStats
}

// Stats summarizes every recorded request.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	stats := &Stats{}

	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(error != ''), 0), COALESCE(AVG(duration_ms), 0) FROM requests")
	var avgMs float64
	if err := row.Scan(&stats.TotalRequests, &stats.Failures, &avgMs); err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	stats.AvgLatency = time.Duration(avgMs) * time.Millisecond

	p50, p95, err := s.latencyPercentiles(ctx)
	if err != nil {
		return nil, err
	}
	stats.P50Latency = p50
	stats.P95Latency = p95

	rows, err := s.db.QueryContext(ctx,
		`SELECT endpoint, COUNT(*), COALESCE(SUM(error != ''), 0)
		 FROM requests GROUP BY endpoint ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var es EndpointStats
		if err := rows.Scan(&es.Endpoint, &es.Count, &es.Failures); err != nil {
			return nil, err
		}
		stats.Endpoints = append(stats.Endpoints, es)
	}
	return stats, rows.Err()
}

// latencyPercentiles computes p50/p95 over all recorded durations.
// PERFORMANCE: The table is local, pruned, and small (one row per API
// call); loading durations into memory is cheaper than emulating
// percentile functions in SQLite.
func (s *Store) latencyPercentiles(ctx context.Context) (p50, p95 time.Duration, err error) {
	rows, err := s.db.QueryContext(ctx, "SELECT duration_ms FROM requests")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query durations: %w", err)
	}
	defer rows.Close()

	var durations []int64
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return 0, 0, err
		}
		durations = append(durations, ms)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if len(durations) == 0 {
		return 0, 0, nil
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p50 = time.Duration(durations[percentileIndex(len(durations), 50)]) * time.Millisecond
	p95 = time.Duration(durations[percentileIndex(len(durations), 95)]) * time.Millisecond
	return p50, p95, nil
}

// percentileIndex returns the nearest-rank index for a percentile.
func percentileIndex(n, pct int) int {
	idx := (n*pct + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > n {
		idx = n
	}
	return idx - 1
}
