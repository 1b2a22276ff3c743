// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// toStr converts an integer to a string without using fmt package.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}

	if n == -9223372036854775808 { // math.MinInt64
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// fmtNumber formats a number with thousand separators.
func fmtNumber(n int) string {
	// Handle math.MinInt64 specially since -math.MinInt64 overflows
	if n == -9223372036854775808 {
		return "-9,223,372,036,854,775,808"
	}

	if n < 0 {
		return "-" + fmtNumber(-n)
	}

	if n < 1000 {
		return toStr(n)
	}

	s := toStr(n)
	result := ""
	count := 0

	for i := len(s) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(s[i]) + result
		count++
	}

	return result
}

// fmtPrice formats a charter price estimate, rounded to whole units.
// The currency code is prefixed when it is not USD; USD renders as $.
func fmtPrice(amount float64, currency string) string {
	rounded := int(amount + 0.5)
	switch currency {
	case "", "USD":
		return "$" + fmtNumber(rounded)
	default:
		return currency + " " + fmtNumber(rounded)
	}
}

// fmtPriceBand renders a low-high estimate band like "$28,000 - $34,000".
func fmtPriceBand(low, high float64, currency string) string {
	if high <= 0 {
		return fmtPrice(low, currency)
	}
	return fmtPrice(low, currency) + " - " + fmtPrice(high, currency)
}

// formatElapsed formats a duration for inline display, like "3s" or "1m12s".
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	secs := int(d.Seconds())
	if secs < 60 {
		return toStr(secs) + "s"
	}
	return toStr(secs/60) + "m" + toStr(secs%60) + "s"
}

// wordWrap wraps text to the given display width.
// UNICODE: uses runewidth so CJK and emoji count their true cell width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		lines   []string
		current strings.Builder
		curW    int
	)

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)

		// A single word wider than the line gets hard-broken.
		for w > width {
			if curW > 0 {
				lines = append(lines, current.String())
				current.Reset()
				curW = 0
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}

		sep := 0
		if curW > 0 {
			sep = 1
		}
		if curW+sep+w > width {
			lines = append(lines, current.String())
			current.Reset()
			curW = 0
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
			curW++
		}
		current.WriteString(word)
		curW += w
	}

	if curW > 0 {
		lines = append(lines, current.String())
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

// minInt returns the smaller of two ints.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
