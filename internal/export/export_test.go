// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		SessionID:  "sess-42",
		ExportedAt: time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC),
		Lead: api.LeadState{
			RouteFrom:        "Dubai",
			RouteTo:          "Nice",
			DateTime:         "2026-09-02 09:00",
			Pax:              4,
			SelectedAircraft: "Gulfstream G650",
			SubmissionState:  api.SubmissionConfirmed,
		},
		Selected: &api.Aircraft{ID: "g650", Name: "Gulfstream G650", Capacity: 14},
		Messages: []conversation.Message{
			{ID: 1, Role: conversation.RoleAssistant, Content: "Good evening.", Timestamp: time.Now()},
			{ID: 2, Role: conversation.RoleUser, Content: "Dubai to Nice, 4 of us.", Timestamp: time.Now()},
			{ID: 3, Role: conversation.RoleAssistant, Content: "The G650 is confirmed.", Timestamp: time.Now()},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	content := string(out)

	for _, want := range []string{
		"# Jetayu Concierge Conversation",
		"## Itinerary",
		"Dubai → Nice",
		"**Passengers**: 4",
		"**Aircraft**: Gulfstream G650",
		"### You",
		"### Concierge",
		"The G650 is confirmed.",
		"session: sess-42",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExport_WithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false, IncludeTimestamps: false}
	out, err := NewMarkdownExporter(opts).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	content := string(out)

	if strings.Contains(content, "## Itinerary") || strings.Contains(content, "session:") {
		t.Error("metadata rendered despite IncludeMetadata=false")
	}
	if strings.Contains(content, "<sub>") {
		t.Error("timestamps rendered despite IncludeTimestamps=false")
	}
}

func TestMarkdownExport_EmptyTranscript(t *testing.T) {
	if _, err := NewMarkdownExporter(nil).Export(&Transcript{}); err == nil {
		t.Error("Export of empty transcript must error")
	}
	if _, err := NewMarkdownExporter(nil).Export(nil); err == nil {
		t.Error("Export of nil transcript must error")
	}
}

func TestJSONExport_RoundTrip(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded Transcript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.SessionID != "sess-42" || len(decoded.Messages) != 3 {
		t.Errorf("decoded = session %q, %d messages", decoded.SessionID, len(decoded.Messages))
	}
	if decoded.Lead.Pax != 4 || decoded.Selected == nil || decoded.Selected.ID != "g650" {
		t.Errorf("decoded lead/selection = %+v / %+v", decoded.Lead, decoded.Selected)
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleTranscript(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Jetayu Concierge Conversation") {
		t.Error("file content missing title")
	}
}

func TestForFormat(t *testing.T) {
	if e, err := ForFormat("markdown", nil); err != nil || e.FileExtension() != ".md" {
		t.Errorf("markdown: %v %v", e, err)
	}
	if e, err := ForFormat("json", nil); err != nil || e.FileExtension() != ".json" {
		t.Errorf("json: %v %v", e, err)
	}
	if e, err := ForFormat("", nil); err != nil || e.FileExtension() != ".md" {
		t.Errorf("default: %v %v", e, err)
	}
	if _, err := ForFormat("pdf", nil); err == nil {
		t.Error("unknown format must error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sess-42", "sess-42"},
		{"a/b\\c:d", "a-b-c-d"},
		{"with space", "with_space"},
		{"", "transcript"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromSnapshot(t *testing.T) {
	snap := conversation.Snapshot{
		SessionID: "sess-7",
		Messages: []conversation.Message{
			{ID: 1, Role: conversation.RoleAssistant, Content: "hello"},
		},
		Selection: conversation.Selection{
			Kind:     conversation.SelectionConfirmed,
			Aircraft: &api.Aircraft{ID: "phenom300e", Name: "Phenom 300E"},
		},
	}

	tr := FromSnapshot(snap)
	if tr.SessionID != "sess-7" || len(tr.Messages) != 1 {
		t.Errorf("transcript = %+v", tr)
	}
	if tr.Selected == nil || tr.Selected.ID != "phenom300e" {
		t.Errorf("Selected = %+v", tr.Selected)
	}

	// A preview is not a selection.
	snap.Selection.Kind = conversation.SelectionPreviewing
	if FromSnapshot(snap).Selected != nil {
		t.Error("previewing aircraft must not export as selected")
	}
}
