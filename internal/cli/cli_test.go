// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_Formats(t *testing.T) {
	p := NewArgParser([]string{"set", "ui.theme", "light", "--json", "--limit", "5", "--since=2026-01-01"})

	if p.Subcommand() != "set" {
		t.Errorf("subcommand = %q, want set", p.Subcommand())
	}
	if got := p.Arg(1); got != "ui.theme" {
		t.Errorf("arg(1) = %q", got)
	}
	if got := p.Arg(2); got != "light" {
		t.Errorf("arg(2) = %q", got)
	}
	if !p.BoolFlag("json") {
		t.Error("--json must parse as a boolean flag")
	}
	if got := p.Flag("limit"); got != "5" {
		t.Errorf("--limit = %q", got)
	}
	if got := p.Flag("since"); got != "2026-01-01" {
		t.Errorf("--since = %q", got)
	}
}

func TestArgParser_ExplicitBoolean(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--quiet=true"})
	if p.BoolFlag("json") {
		t.Error("--json=false must be false")
	}
	if !p.BoolFlag("quiet") {
		t.Error("--quiet=true must be true")
	}
}

func TestArgParser_OutOfRange(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" {
		t.Errorf("empty parser subcommand = %q", p.Subcommand())
	}
	if p.Arg(3) != "" {
		t.Error("out of range Arg must return empty")
	}
	if p.Flag("missing") != "" {
		t.Error("missing flag must return empty")
	}
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"chat"}, CmdChat},
		{[]string{"repl"}, CmdChat},
		{[]string{"auth", "login"}, CmdAuth},
		{[]string{"login"}, CmdAuth},
		{[]string{"logout"}, CmdAuth},
		{[]string{"whoami"}, CmdAuth},
		{[]string{"config", "set", "ui.theme", "light"}, CmdConfig},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"frobnicate"}, CmdHelp},
	}
	for _, tt := range tests {
		got := ParseArgs(tt.argv)
		if got.Command != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, got.Command, tt.want)
		}
	}
}

func TestParseArgs_AliasKeepsSubcommand(t *testing.T) {
	args := ParseArgs([]string{"login", "ava@example.com"})
	if args.Command != CmdAuth {
		t.Fatalf("command = %v, want CmdAuth", args.Command)
	}
	if got := args.Parser.Subcommand(); got != "login" {
		t.Errorf("subcommand = %q, want login", got)
	}
	if got := args.Parser.Arg(1); got != "ava@example.com" {
		t.Errorf("arg(1) = %q", got)
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	args := ParseArgs([]string{"auth", "status", "--json"})
	if !args.JSON {
		t.Error("--json must set the JSON flag")
	}
	args = ParseArgs([]string{"chat", "-q"})
	if !args.Quiet {
		t.Error("-q must set the quiet flag")
	}
}

// =============================================================================
// REDACTION
// =============================================================================

func TestRedactValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"backend.url", "http://x", "http://x"},
		{"identity.anon_key", "", "(not set)"},
		{"identity.anon_key", "short", "********"},
		{"identity.totp_secret", "ABCDEFGHIJKLMNOP", "ABCD...MNOP"},
	}
	for _, tt := range tests {
		if got := redactValue(tt.key, tt.value); got != tt.want {
			t.Errorf("redactValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}
