// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mohanraghava-higherself/jetayuV1/internal/util"
)

// browsePatterns match free text that asks to see different aircraft.
// The heuristic is used only to proactively clear a locally confirmed
// selection before the request goes out; it hides latency and is never
// trusted as the source of truth. The backend re-derives intent itself.
var browsePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(other|different|more)\s+(options?|aircraft|jets?|planes?|choices?)\b`),
	regexp.MustCompile(`\bwhat\s+else\b`),
	regexp.MustCompile(`\b(show\s+me\s+)?(bigger|larger|smaller|more\s+compact)\b`),
	regexp.MustCompile(`\b(something|anything)\s+(else|bigger|larger|smaller|different)\b`),
	regexp.MustCompile(`\b(go\s+back|show\s+(me\s+)?previous|show\s+earlier)\b`),
	regexp.MustCompile(`\b(recommended|recommendations?|what\s+do\s+you\s+recommend)\b`),
	regexp.MustCompile(`\bchange\s+(the\s+)?(aircraft|jet|plane|selection)\b`),
}

// looksLikeBrowseRequest reports whether the text reads like a request
// to browse alternatives. Input is NFKC-normalized and lowercased so
// fullwidth and composed characters compare like their plain forms.
func looksLikeBrowseRequest(text string) bool {
	normalized := util.CollapseSpaces(strings.ToLower(norm.NFKC.String(text)))
	if normalized == "" {
		return false
	}
	for _, p := range browsePatterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}
