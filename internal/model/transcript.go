// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "slices"

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered history of turns that forms the conversational
// context for the remote model. Index 0 always holds the seed turn. The
// transcript only grows: turns are never reordered or removed.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates a transcript seeded with a single turn.
func NewTranscript(seed Turn) *Transcript {
	return &Transcript{
		turns: []Turn{seed},
	}
}

// =============================================================================
// MUTATION
// =============================================================================

// Append adds turns to the end of the transcript in the given order.
func (t *Transcript) Append(turns ...Turn) {
	t.turns = append(t.turns, turns...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Len returns the number of turns, including the seed.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of every turn in order.
func (t *Transcript) Turns() []Turn {
	return slices.Clone(t.turns)
}

// Seed returns the seed turn at index 0.
func (t *Transcript) Seed() Turn {
	return t.turns[0]
}

// Exchanges returns the number of completed user/model exchanges.
func (t *Transcript) Exchanges() int {
	return (len(t.turns) - 1) / 2
}

// LastReply returns the most recent model turn, if any.
func (t *Transcript) LastReply() (Turn, bool) {
	for i := len(t.turns) - 1; i > 0; i-- {
		if t.turns[i].Role == RoleModel {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}

// Balanced reports whether every turn after the seed alternates user, model.
func (t *Transcript) Balanced() bool {
	rest := t.turns[1:]
	if len(rest)%2 != 0 {
		return false
	}
	for i := 0; i < len(rest); i += 2 {
		if rest[i].Role != RoleUser || rest[i+1].Role != RoleModel {
			return false
		}
	}
	return true
}

// EstimateTokens estimates the total token count of the transcript,
// including ~4 tokens of per-turn overhead.
func (t *Transcript) EstimateTokens() int {
	total := 0
	for _, turn := range t.turns {
		total += turn.EstimateTokens() + 4
	}
	return total
}
