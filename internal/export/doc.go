// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to disk.
//
// Supports Markdown (human-readable, with itinerary summary) and JSON
// (machine-readable, faithful to the conversation state). Files are
// written atomically so an interrupted export never leaves a truncated
// transcript behind.
package export
