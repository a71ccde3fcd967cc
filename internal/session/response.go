// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"

	"github.com/jeranaias/codeassist/internal/model"
)

// ChatClient is a chat handle bound to one conversation. Implementations
// keep their own copy of the history and extend it after each successful
// Send.
type ChatClient interface {
	Send(ctx context.Context, message string) (*Response, error)
}

// Dialer opens a ChatClient for the given credential, seeded with history.
type Dialer func(ctx context.Context, credential string, seed []model.Turn) (ChatClient, error)

// Part is one text fragment of a model response.
type Part struct {
	Text string
}

// Response is the ordered list of parts returned by a ChatClient.
type Response struct {
	Parts []Part
}

// NewResponse builds a Response from plain strings.
func NewResponse(parts ...string) *Response {
	r := &Response{Parts: make([]Part, 0, len(parts))}
	for _, p := range parts {
		r.Parts = append(r.Parts, Part{Text: p})
	}
	return r
}

// Text concatenates every part in order. A nil Response yields "".
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
