// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseResult is the outcome of parsing one line of user input.
// Free text (anything not starting with /) comes back with
// IsCommand=false and goes to the conversation instead.
type ParseResult struct {
	IsCommand   bool
	Command     *Command // nil when the name matched nothing
	CommandName string   // lowercased, with the leading slash
	Args        []string
	RawInput    string
	RawArgs     string // argument portion before tokenization
}

// Parser resolves slash commands against a registry.
type Parser struct {
	registry *Registry
}

func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse classifies input and, for commands, resolves the name and
// tokenizes the arguments. Aircraft names contain spaces, so
// `/select "Gulfstream G650"` must arrive as a single argument.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	result := ParseResult{RawInput: input}

	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	tokens := splitCommandLine(input)
	if len(tokens) == 0 {
		return result
	}

	result.CommandName = strings.ToLower(tokens[0])
	result.Args = tokens[1:]
	if rest := strings.TrimPrefix(input, tokens[0]); rest != input {
		result.RawArgs = strings.TrimSpace(rest)
	}

	result.Command = p.registry.Get(result.CommandName)
	return result
}

// splitCommandLine tokenizes on whitespace, honoring single and double
// quotes. Inside quotes, a backslash escapes a quote or another
// backslash; elsewhere it is literal.
func splitCommandLine(input string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune // active quote rune, 0 when outside quotes
	)

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r

		case quote != 0 && r == quote:
			quote = 0

		case quote != 0 && r == '\\' && i+1 < len(runes):
			switch next := runes[i+1]; next {
			case '\'', '"', '\\':
				current.WriteRune(next)
				i++
			default:
				current.WriteRune(r)
			}

		case quote == 0 && unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// IsCommand reports whether the input would be treated as a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the command name alone, or "" for free
// text. "/select g650" yields "/select".
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	if end := strings.IndexFunc(input, unicode.IsSpace); end >= 0 {
		return input[:end]
	}
	return input
}

// ValidateArgs checks the given arguments against the command's
// declared argument list: required arguments must be present, and enum
// arguments must match one of the declared values (case-insensitive).
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}

	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      def.Name,
					Message:  "required argument missing",
					Expected: def.Description,
				}
			}
			continue
		}

		if def.Type == ArgTypeEnum && len(def.Values) > 0 && !containsFold(def.Values, args[i]) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// ValidationError describes one rejected command argument.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Command, e.Message)
	if e.Arg != "" {
		fmt.Fprintf(&sb, " for argument '%s'", e.Arg)
	}
	if e.Got != "" {
		fmt.Fprintf(&sb, " (got: %s)", e.Got)
	}
	if e.Expected != "" {
		fmt.Fprintf(&sb, " - expected: %s", e.Expected)
	}
	return sb.String()
}
