// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides jetayu-setup, the guided first-run wizard.
//
// The wizard checks the environment, asks for the concierge backend and
// optional sign-in provider, and writes ~/.jetayu/config.toml. It exists
// so a new user never has to hand-edit TOML before their first chat.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

const version = "1.0.0"

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--text", "-t":
			if err := runTextSetup(); err != nil {
				fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
				os.Exit(1)
			}
			return
		case "--help", "-h":
			printHelp()
			return
		case "--version", "-v":
			fmt.Printf("jetayu-setup v%s\n", version)
			return
		}
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("jetayu-setup requires an interactive terminal.")
		fmt.Println("Run with --text for a prompt-based setup.")
		os.Exit(1)
	}

	p := tea.NewProgram(NewWizard(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`jetayu-setup v` + version + `

Usage: jetayu-setup [OPTIONS]

Options:
  --text, -t     Prompt-based setup (copy/paste friendly)
  --help, -h     Show this help
  --version, -v  Show version

The default mode is an interactive wizard. Both modes write the same
configuration file to ~/.jetayu/config.toml.`)
}
