// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the Jetayu TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// AIRCRAFT DECK - Suggestion cards with keyboard focus
// =============================================================================

// Reference maxima for the capacity and range gauges. The heaviest
// catalogue entries sit near these values, so the bars stay meaningful
// across the whole fleet.
const (
	gaugeMaxCapacity = 19
	gaugeMaxRangeNM  = 7500
)

// AircraftDeck renders the current aircraft suggestions as a card strip
// and tracks which card has keyboard focus.
type AircraftDeck struct {
	aircraft      []api.Aircraft
	focus         int
	confirmedName string
	width         int
	showPricing   bool
	canGoBack     bool
	theme         *styles.Theme
}

// NewAircraftDeck creates an empty deck.
func NewAircraftDeck(theme *styles.Theme) *AircraftDeck {
	return &AircraftDeck{
		width:       80,
		showPricing: true,
		theme:       theme,
	}
}

// SetAircraft replaces the suggestions. Focus resets to the first card
// unless the confirmed aircraft is present, which then takes focus.
func (d *AircraftDeck) SetAircraft(list []api.Aircraft) {
	d.aircraft = list
	d.focus = 0
	for i, a := range list {
		if d.confirmedName != "" && a.Name == d.confirmedName {
			d.focus = i
			break
		}
	}
}

// SetConfirmed marks the named aircraft as the confirmed selection.
// Empty clears the highlight.
func (d *AircraftDeck) SetConfirmed(name string) {
	d.confirmedName = name
}

// SetWidth sets the total render width.
func (d *AircraftDeck) SetWidth(width int) {
	d.width = width
}

// SetShowPricing toggles the price band line.
func (d *AircraftDeck) SetShowPricing(show bool) {
	d.showPricing = show
}

// SetCanGoBack toggles the "previous suggestions" hint.
func (d *AircraftDeck) SetCanGoBack(can bool) {
	d.canGoBack = can
}

// Empty reports whether the deck has no cards.
func (d *AircraftDeck) Empty() bool {
	return len(d.aircraft) == 0
}

// Len returns the number of cards.
func (d *AircraftDeck) Len() int {
	return len(d.aircraft)
}

// FocusNext moves keyboard focus to the next card, wrapping around.
func (d *AircraftDeck) FocusNext() {
	if len(d.aircraft) == 0 {
		return
	}
	d.focus = (d.focus + 1) % len(d.aircraft)
}

// FocusPrev moves keyboard focus to the previous card, wrapping around.
func (d *AircraftDeck) FocusPrev() {
	if len(d.aircraft) == 0 {
		return
	}
	d.focus = (d.focus - 1 + len(d.aircraft)) % len(d.aircraft)
}

// Focused returns the card under keyboard focus, or nil when empty.
func (d *AircraftDeck) Focused() *api.Aircraft {
	if d.focus < 0 || d.focus >= len(d.aircraft) {
		return nil
	}
	a := d.aircraft[d.focus]
	return &a
}

// Names returns the card names in display order, for completion.
func (d *AircraftDeck) Names() []string {
	names := make([]string, 0, len(d.aircraft))
	for _, a := range d.aircraft {
		names = append(names, a.Name)
	}
	return names
}

// FindByName returns the card whose name matches, case-insensitively.
// A unique prefix match is accepted so "/select phenom" works.
func (d *AircraftDeck) FindByName(name string) *api.Aircraft {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}

	var prefix *api.Aircraft
	prefixCount := 0
	for i := range d.aircraft {
		a := d.aircraft[i]
		if strings.ToLower(a.Name) == lower {
			return &a
		}
		if strings.HasPrefix(strings.ToLower(a.Name), lower) {
			prefix = &a
			prefixCount++
		}
	}
	if prefixCount == 1 {
		return prefix
	}
	return nil
}

// View renders the deck.
func (d *AircraftDeck) View() string {
	if len(d.aircraft) == 0 {
		return ""
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Champagne).
		Bold(true).
		Render("Suggested aircraft")

	cards := make([]string, 0, len(d.aircraft))
	cardWidth := d.cardWidth()
	for i, a := range d.aircraft {
		cards = append(cards, d.renderCard(a, cardWidth, i == d.focus))
	}

	var rows []string
	perRow := maxCardsPerRow(d.width, cardWidth)
	for start := 0; start < len(cards); start += perRow {
		end := minInt(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}

	hint := d.renderHint()

	parts := append([]string{title}, rows...)
	if hint != "" {
		parts = append(parts, hint)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ==========================================================================
// CARD RENDERING
// ==========================================================================

func (d *AircraftDeck) renderCard(a api.Aircraft, width int, focused bool) string {
	inner := width - 6 // border and padding

	var sb strings.Builder

	sb.WriteString(d.theme.CardTitle.Render(truncateTo(a.Name, inner)))
	sb.WriteByte('\n')

	category := a.Category
	if a.Manufacturer != "" {
		category = a.Manufacturer + " / " + a.Category
	}
	sb.WriteString(d.theme.CardCategory.Render(truncateTo(category, inner)))
	sb.WriteByte('\n')

	gaugeWidth := minInt(10, inner-16)
	if gaugeWidth < 4 {
		gaugeWidth = 4
	}

	capPct := float64(a.Capacity) / gaugeMaxCapacity * 100
	sb.WriteString(d.theme.CardSpec.Render(
		"Seats " + padNum(a.Capacity, 2) + " " + styles.RenderProgressBar(gaugeWidth, capPct)))
	sb.WriteByte('\n')

	rangePct := float64(a.RangeNM) / gaugeMaxRangeNM * 100
	sb.WriteString(d.theme.CardSpec.Render(
		"Range " + fmtNumber(a.RangeNM) + " nm " + styles.RenderProgressBar(gaugeWidth, rangePct)))

	if d.showPricing && a.Pricing != nil {
		sb.WriteByte('\n')
		sb.WriteString(d.theme.CardPrice.Render(
			truncateTo(fmtPriceBand(a.Pricing.EstimateLow, a.Pricing.EstimateHigh, a.Pricing.Currency), inner)))
	}

	confirmed := d.confirmedName != "" && a.Name == d.confirmedName
	if confirmed {
		sb.WriteByte('\n')
		sb.WriteString(d.theme.ConfirmedTag.Render(styles.StatusIndicators.Success + " SELECTED"))
	}

	style := d.theme.Card
	switch {
	case confirmed:
		style = d.theme.CardConfirmed
	case focused:
		style = d.theme.CardFocused
	}

	return style.Width(width - 2).Render(sb.String())
}

func (d *AircraftDeck) renderHint() string {
	var keys []string
	keys = append(keys, "tab: next card", "enter: select", "ctrl+o: details")
	if d.canGoBack {
		keys = append(keys, "ctrl+b: previous suggestions")
	}
	return d.theme.CardHint.Render(strings.Join(keys, "  "))
}

func (d *AircraftDeck) cardWidth() int {
	// Two cards side by side on medium terminals, three on wide ones.
	switch {
	case d.width >= 120:
		return d.width / 3
	case d.width >= 76:
		return d.width / 2
	default:
		return d.width
	}
}

func maxCardsPerRow(total, card int) int {
	if card <= 0 {
		return 1
	}
	n := total / card
	if n < 1 {
		return 1
	}
	return n
}

// =============================================================================
// AIRCRAFT DETAIL PANEL
// =============================================================================

// AircraftDetail renders the full detail view for a previewed aircraft.
type AircraftDetail struct {
	Aircraft    api.Aircraft
	Width       int
	ShowPricing bool
	theme       *styles.Theme
}

// NewAircraftDetail creates a detail panel.
func NewAircraftDetail(a api.Aircraft, theme *styles.Theme) *AircraftDetail {
	return &AircraftDetail{
		Aircraft:    a,
		Width:       80,
		ShowPricing: true,
		theme:       theme,
	}
}

// View renders the detail panel.
func (p *AircraftDetail) View() string {
	a := p.Aircraft
	inner := p.Width - 10
	if inner < 30 {
		inner = 30
	}

	var sb strings.Builder

	sb.WriteString(p.theme.CardTitle.Render(a.Name))
	sb.WriteByte('\n')
	header := a.Manufacturer
	if header != "" && a.Category != "" {
		header += " / "
	}
	header += a.Category
	sb.WriteString(p.theme.CardCategory.Render(header))
	sb.WriteString("\n\n")

	specs := []struct{ label, value string }{
		{"Passengers", fmtNumber(a.Capacity)},
		{"Range", fmtNumber(a.RangeNM) + " nm"},
		{"Cruise speed", fmtNumber(a.SpeedKPH) + " km/h"},
	}
	for i, s := range specs {
		sb.WriteString(styles.RenderTreeLine(i == len(specs)-1))
		sb.WriteString(p.theme.CardSpec.Render(s.label + ": " + s.value))
		sb.WriteByte('\n')
	}

	if a.Description != "" {
		sb.WriteByte('\n')
		sb.WriteString(wordWrap(a.Description, inner))
		sb.WriteByte('\n')
	}

	if len(a.Features) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(p.theme.CardCategory.Render("Cabin highlights"))
		sb.WriteByte('\n')
		for _, f := range a.Features {
			sb.WriteString("  - " + f + "\n")
		}
	}

	if p.ShowPricing && a.Pricing != nil {
		sb.WriteByte('\n')
		sb.WriteString(p.theme.CardPrice.Render(
			"Estimate: " + fmtPriceBand(a.Pricing.EstimateLow, a.Pricing.EstimateHigh, a.Pricing.Currency)))
		if a.Pricing.Note != "" {
			sb.WriteByte('\n')
			sb.WriteString(p.theme.CardHint.Render(wordWrap(a.Pricing.Note, inner)))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(p.theme.CardHint.Render("enter: select this aircraft  esc: back to suggestions"))

	return p.theme.CardFocused.Width(p.Width - 4).Render(sb.String())
}

// ==========================================================================
// HELPERS
// ==========================================================================

func truncateTo(s string, width int) string {
	if width <= 3 {
		return s
	}
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

func padNum(n, width int) string {
	s := toStr(n)
	for len(s) < width {
		s = " " + s
	}
	return s
}
