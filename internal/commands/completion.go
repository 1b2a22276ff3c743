// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
)

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert
	Value string

	// Display text (may include formatting)
	Display string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int
}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer provides suggestions for partially typed commands and
// arguments.
type Completer struct {
	registry *Registry

	// AircraftNames supplies the current suggestion card names for
	// ArgTypeAircraft arguments. Nil when no cards are shown.
	AircraftNames func() []string
}

// NewCompleter creates a completer over the registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns suggestions for the given input. Empty when the
// input is not a command.
func (c *Completer) Complete(input string) []Completion {
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	// Still typing the command name.
	if strings.IndexFunc(input, unicode.IsSpace) == -1 {
		return c.completeCommandName(input)
	}

	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return nil
	}
	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	// Which argument is being typed.
	argIdx := len(parts) - 1
	partial := ""
	if !strings.HasSuffix(input, " ") {
		argIdx--
		partial = parts[len(parts)-1]
	}
	if argIdx < 0 || argIdx >= len(cmd.Args) {
		return nil
	}

	return c.completeArg(cmd.Args[argIdx], partial)
}

// completeCommandName matches registered commands by prefix.
func (c *Completer) completeCommandName(partial string) []Completion {
	lower := strings.ToLower(partial)
	var out []Completion

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(cmd.Name, lower) {
			out = append(out, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       100 - (len(cmd.Name) - len(lower)),
			})
			continue
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, lower) {
				out = append(out, Completion{
					Value:       cmd.Name,
					Display:     alias + " → " + cmd.Name,
					Description: cmd.Description,
					Score:       50 - (len(alias) - len(lower)),
				})
				break
			}
		}
	}

	sortCompletions(out)
	return out
}

// completeArg suggests values for a single argument definition.
func (c *Completer) completeArg(def ArgDef, partial string) []Completion {
	var values []string

	switch def.Type {
	case ArgTypeEnum:
		values = def.Values
	case ArgTypeAircraft:
		if c.AircraftNames != nil {
			values = c.AircraftNames()
		}
	case ArgTypeConfig:
		values = config.GetAllKeys()
	default:
		return nil
	}

	lower := strings.ToLower(partial)
	var out []Completion
	for _, v := range values {
		if partial == "" || strings.HasPrefix(strings.ToLower(v), lower) {
			out = append(out, Completion{
				Value:       v,
				Display:     v,
				Description: def.Description,
				Score:       100 - (len(v) - len(partial)),
			})
		}
	}

	sortCompletions(out)
	return out
}

// sortCompletions orders by score descending, then value for stability.
func sortCompletions(list []Completion) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Value < list[j].Value
	})
}
