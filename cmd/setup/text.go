// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
)

// runTextSetup is the prompt-based fallback for terminals where the
// full-screen wizard cannot run (pipes, dumb terminals, CI).
func runTextSetup() error {
	reader := bufio.NewReader(os.Stdin)
	defaults := config.Default()

	fmt.Println("Jetayu setup (text mode)")
	fmt.Println()

	for _, c := range runChecks() {
		mark := "ok"
		if !c.ok {
			mark = "FAIL"
		}
		fmt.Printf("  [%s] %-24s %s\n", mark, c.name, c.detail)
	}
	fmt.Println()

	backend := promptLine(reader,
		fmt.Sprintf("Concierge backend URL [%s]: ", defaults.Backend.URL))
	identity := promptLine(reader,
		"Sign-in provider URL (optional, enter to skip): ")

	theme := promptLine(reader, "Theme (auto/dark/light) [auto]: ")
	switch theme {
	case "", "auto", "dark", "light":
	default:
		fmt.Printf("Unknown theme %q, using auto.\n", theme)
		theme = "auto"
	}
	if theme == "" {
		theme = "auto"
	}

	path, err := writeConfig(backend, identity, theme)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Start chatting with: jetayu")
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
