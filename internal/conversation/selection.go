// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
)

// SelectionKind is the discriminant of the aircraft selection state.
// The three states are mutually exclusive; modeling them as independent
// booleans is exactly the bug this type exists to prevent.
type SelectionKind int

const (
	// SelectionNone means no aircraft is highlighted.
	SelectionNone SelectionKind = iota

	// SelectionPreviewing means the visitor is browsing details of one
	// aircraft. Previewing does not imply selection and is closed the
	// instant the backend confirms a selection.
	SelectionPreviewing

	// SelectionConfirmed means the lead carries a selected aircraft,
	// either confirmed by the backend or set optimistically by an
	// explicit select action awaiting confirmation.
	SelectionConfirmed
)

// String implements fmt.Stringer.
func (k SelectionKind) String() string {
	switch k {
	case SelectionPreviewing:
		return "previewing"
	case SelectionConfirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// Selection is the tagged-union aircraft selection state. Aircraft is
// nil exactly when Kind is SelectionNone.
type Selection struct {
	Kind     SelectionKind
	Aircraft *api.Aircraft
}

// selectionNone returns the empty selection.
func selectionNone() Selection {
	return Selection{Kind: SelectionNone}
}

// resolveConfirmed finds the full catalogue entry for the confirmed
// aircraft name. The response list is searched first, then the current
// candidates, then older history. When the name cannot be resolved (the
// backend may omit the candidate list on a pure-confirmation turn) the
// previous confirmed aircraft is kept; as a last resort a minimal entry
// carrying just the name is synthesized so the UI never shows a blank
// selection.
func resolveConfirmed(name string, fresh []api.Aircraft, current []api.Aircraft, history [][]api.Aircraft, previous *api.Aircraft) *api.Aircraft {
	if a := findByName(fresh, name); a != nil {
		return a
	}
	if a := findByName(current, name); a != nil {
		return a
	}
	for i := len(history) - 1; i >= 0; i-- {
		if a := findByName(history[i], name); a != nil {
			return a
		}
	}
	if previous != nil && previous.Name == name {
		return previous
	}
	if previous != nil {
		return previous
	}
	return &api.Aircraft{Name: name}
}

func findByName(list []api.Aircraft, name string) *api.Aircraft {
	for i := range list {
		if list[i].Name == name {
			copied := list[i]
			return &copied
		}
	}
	return nil
}
