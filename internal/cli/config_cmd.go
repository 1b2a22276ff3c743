// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management from the command line.
//
// Command: config [subcommand]
// Short:   Show and change configuration
//
// Subcommands:
//   show (default)      Show the full configuration
//   get <key>           Show one value
//   set <key> <value>   Change a value and save
//   path                Print the config file location
//
// Examples:
//   jetayu config
//   jetayu config get ui.theme
//   jetayu config set ui.theme light
//   jetayu config set backend.url https://api.jetayu.example

package cli

import (
	"fmt"
	"strings"

	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Parser.Subcommand() {
	case "", "show", "list":
		return configShow()
	case "get":
		return configGet(args.Parser.Arg(1))
	case "set":
		return configSet(args.Parser.Arg(1), strings.Join(args.Parser.Positional()[2:], " "))
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (show, get, set, path)", args.Parser.Subcommand())
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%-36s %s\n", key, redactValue(key, fmt.Sprintf("%v", value)))
	}
	return nil
}

func configGet(key string) error {
	if key == "" {
		return fmt.Errorf("usage: jetayu config get <key>")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return fmt.Errorf("unknown key %q (see: jetayu config show)", key)
	}
	fmt.Println(redactValue(key, fmt.Sprintf("%v", value)))
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: jetayu config set <key> <value>")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, redactValue(key, value))
	return nil
}

// redactValue hides credential-like values.
// SECURITY: keys and secrets never print in full.
func redactValue(key, value string) string {
	lower := strings.ToLower(key)
	for _, marker := range []string{"key", "secret", "token", "password"} {
		if strings.Contains(lower, marker) {
			if value == "" {
				return "(not set)"
			}
			if len(value) <= 8 {
				return "********"
			}
			return value[:4] + "..." + value[len(value)-4:]
		}
	}
	return value
}
