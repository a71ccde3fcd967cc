// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/codeassist/internal/model"
)

// =============================================================================
// SESSION
// =============================================================================

// Config holds the inputs needed to open a session.
type Config struct {
	// Credential is the API key handed to the dialer.
	Credential string

	// SystemPrompt seeds the transcript as its first user turn.
	SystemPrompt string

	// Logger receives request metadata. Nil discards.
	Logger *slog.Logger
}

// Session is the single conversation of a run.
type Session struct {
	id     string
	client ChatClient
	logger *slog.Logger

	mu         sync.RWMutex
	transcript *model.Transcript

	inFlight atomic.Bool
}

// New validates the credential, seeds the transcript and dials the chat
// client. With an empty credential it returns ErrCredentialMissing without
// calling dial.
func New(ctx context.Context, cfg Config, dial Dialer) (*Session, error) {
	if strings.TrimSpace(cfg.Credential) == "" {
		return nil, ErrCredentialMissing
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transcript := model.NewTranscript(model.NewUserTurn(cfg.SystemPrompt))

	client, err := dial(ctx, cfg.Credential, transcript.Turns())
	if err != nil {
		return nil, &RemoteCallError{Op: "connect", Err: err}
	}

	s := &Session{
		id:         newID(),
		client:     client,
		logger:     logger,
		transcript: transcript,
	}
	s.logger.Debug("session opened", "session_id", s.id)
	return s, nil
}

// newID returns a time-ordered UUID, falling back to a random one.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Respond sends text to the chat client and returns the concatenated reply.
// The user and model turns are appended only when the call succeeds.
func (s *Session) Respond(ctx context.Context, text string) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.inFlight.Store(false)

	start := time.Now()
	resp, err := s.client.Send(ctx, text)
	if err != nil {
		s.logger.Warn("remote call failed",
			"session_id", s.id,
			"input_len", len(text),
			"duration", time.Since(start),
			"error", err)
		return "", &RemoteCallError{Op: "send", Err: err}
	}

	reply := resp.Text()

	s.mu.Lock()
	s.transcript.Append(model.NewUserTurn(text), model.NewModelTurn(reply))
	turns := s.transcript.Len()
	balanced := s.transcript.Balanced()
	tokens := s.transcript.EstimateTokens()
	s.mu.Unlock()

	if !balanced {
		s.logger.Error("transcript out of user/model order", "session_id", s.id, "turns", turns)
	}

	s.logger.Info("exchange complete",
		"session_id", s.id,
		"input_len", len(text),
		"reply_len", len(reply),
		"parts", len(resp.Parts),
		"turns", turns,
		"tokens_est", tokens,
		"duration", time.Since(start))
	return reply, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SystemPrompt returns the instruction prompt the session was opened with.
func (s *Session) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Seed().Text
}

// Transcript returns a copy of every turn, seed first.
func (s *Session) Transcript() []model.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Turns()
}

// Len returns the number of turns in the transcript.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Len()
}

// Exchanges returns the number of completed exchanges.
func (s *Session) Exchanges() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Exchanges()
}

// LastReply returns the most recent model reply, if any.
func (s *Session) LastReply() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turn, ok := s.transcript.LastReply()
	return turn.Text, ok
}

// Busy reports whether a request is in flight.
func (s *Session) Busy() bool {
	return s.inFlight.Load()
}
