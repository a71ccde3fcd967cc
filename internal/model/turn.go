// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/jeranaias/codeassist/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the speaker of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is a single message in a conversation. Turns are values: once built
// they are only ever copied, never modified in place.
type Turn struct {
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role Role, text string) Turn {
	return Turn{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserTurn creates a user turn.
func NewUserTurn(text string) Turn {
	return NewTurn(RoleUser, text)
}

// NewModelTurn creates a model turn.
func NewModelTurn(text string) Turn {
	return NewTurn(RoleModel, text)
}

// Preview returns a truncated single-line preview of the turn text.
func (t Turn) Preview(maxLen int) string {
	return util.TruncateRunes(util.SingleLine(t.Text), maxLen)
}

// EstimateTokens returns a rough token estimate (~4 characters per token).
func (t Turn) EstimateTokens() int {
	return (len(t.Text) + 3) / 4
}

// IsEmpty returns true if the turn has no text.
func (t Turn) IsEmpty() bool {
	return t.Text == ""
}
