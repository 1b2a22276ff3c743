// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// COLORS
// =============================================================================

func TestAdaptiveColors_HaveBothVariants(t *testing.T) {
	colors := map[string]struct{ light, dark string }{
		"Gold":      {Gold.Light, Gold.Dark},
		"Champagne": {Champagne.Light, Champagne.Dark},
		"Sapphire":  {Sapphire.Light, Sapphire.Dark},
		"Emerald":   {Emerald.Light, Emerald.Dark},
		"Rose":      {Rose.Light, Rose.Dark},
		"Amber":     {Amber.Light, Amber.Dark},
		"Surface":   {Surface.Light, Surface.Dark},
		"CardBg":    {CardBg.Light, CardBg.Dark},
	}
	for name, c := range colors {
		if !strings.HasPrefix(c.light, "#") || !strings.HasPrefix(c.dark, "#") {
			t.Errorf("%s: variants must be hex colors, got %q / %q", name, c.light, c.dark)
		}
	}
}

func TestStatusIndicators_AreASCII(t *testing.T) {
	for _, s := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	} {
		if s == "" {
			t.Error("indicator must not be empty")
		}
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", s, r)
			}
		}
	}
}

func TestRenderHelpers_IncludeIndicator(t *testing.T) {
	tests := []struct {
		render    func(string) string
		indicator string
	}{
		{RenderSuccess, StatusIndicators.Success},
		{RenderError, StatusIndicators.Error},
		{RenderWarning, StatusIndicators.Warning},
		{RenderInfo, StatusIndicators.Info},
	}
	for _, tt := range tests {
		out := tt.render("itinerary saved")
		if !strings.Contains(out, tt.indicator) {
			t.Errorf("output %q missing shape indicator %q", out, tt.indicator)
		}
		if !strings.Contains(out, "itinerary saved") {
			t.Errorf("output %q missing message", out)
		}
	}
}

// =============================================================================
// THEME
// =============================================================================

func TestNewTheme_InitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Rendering through a few representative styles must not panic and
	// must preserve the content.
	for _, style := range []struct {
		name   string
		render func(...string) string
	}{
		{"UserBubble", theme.UserBubble.Render},
		{"ConciergeBubble", theme.ConciergeBubble.Render},
		{"CardFocused", theme.CardFocused.Render},
		{"AuthBox", theme.AuthBox.Render},
		{"ErrorBox", theme.ErrorBox.Render},
	} {
		out := style.render("Gulfstream G650")
		if !strings.Contains(out, "Gulfstream G650") {
			t.Errorf("%s dropped content: %q", style.name, out)
		}
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: mode = %d, want %d", tt.width, got, tt.want)
		}
	}
}

// =============================================================================
// ANIMATIONS
// =============================================================================

func TestSpinnerConfig_Duration(t *testing.T) {
	if d := LineSpinner.Duration(); d != 100*time.Millisecond {
		t.Errorf("LineSpinner.Duration() = %v", d)
	}
	if d := DotsSpinner.Duration(); d <= 0 {
		t.Errorf("DotsSpinner.Duration() = %v", d)
	}
}

func TestSpinnerConfig_FrameAt(t *testing.T) {
	now := time.Now()
	frame := DotsSpinner.FrameAt(now)
	found := false
	for _, f := range DotsSpinner.Frames {
		if f == frame {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("FrameAt returned %q, not a known frame", frame)
	}

	empty := SpinnerConfig{FPS: 10}
	if got := empty.FrameAt(now); got != "" {
		t.Errorf("empty spinner returned %q", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := RenderProgressBar(10, 0); got != strings.Repeat(ProgressEmpty, 10) {
		t.Errorf("0%% = %q", got)
	}
	if got := RenderProgressBar(10, 100); got != strings.Repeat(ProgressFull, 10) {
		t.Errorf("100%% = %q", got)
	}
	if got := RenderProgressBar(10, 50); len(got) != 10 {
		t.Errorf("50%% has width %d: %q", len(got), got)
	}

	// Out-of-range input is clamped, never panics.
	if got := RenderProgressBar(10, -5); got != strings.Repeat(ProgressEmpty, 10) {
		t.Errorf("-5%% = %q", got)
	}
	if got := RenderProgressBar(10, 150); got != strings.Repeat(ProgressFull, 10) {
		t.Errorf("150%% = %q", got)
	}
	if got := RenderProgressBar(0, 50); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func TestRenderTreeLine(t *testing.T) {
	if got := RenderTreeLine(false); got != "+- " {
		t.Errorf("mid item = %q", got)
	}
	if got := RenderTreeLine(true); got != "`- " {
		t.Errorf("last item = %q", got)
	}
}
