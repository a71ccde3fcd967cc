// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/codeassist/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fakeClient records every message and replays canned responses.
type fakeClient struct {
	mu    sync.Mutex
	sent  []string
	parts []string
	err   error

	// block, when set, holds Send until closed.
	block chan struct{}
}

func (f *fakeClient) Send(ctx context.Context, message string) (*Response, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	if f.err != nil {
		return nil, f.err
	}
	return NewResponse(f.parts...), nil
}

func dialerFor(c ChatClient) Dialer {
	return func(ctx context.Context, credential string, seed []model.Turn) (ChatClient, error) {
		return c, nil
	}
}

func newTestSession(t *testing.T, c ChatClient) *Session {
	t.Helper()
	s, err := New(context.Background(), Config{
		Credential:   "test-key",
		SystemPrompt: "You are a code assistant.",
	}, dialerFor(c))
	require.NoError(t, err)
	return s
}

// =============================================================================
// CONSTRUCTION TESTS
// =============================================================================

func TestNew_SeedsTranscript(t *testing.T) {
	var gotSeed []model.Turn
	var gotKey string
	dial := func(ctx context.Context, credential string, seed []model.Turn) (ChatClient, error) {
		gotKey = credential
		gotSeed = seed
		return &fakeClient{}, nil
	}

	s, err := New(context.Background(), Config{Credential: "k", SystemPrompt: "prompt"}, dial)
	require.NoError(t, err)

	assert.Equal(t, "k", gotKey)
	require.Len(t, gotSeed, 1)
	assert.Equal(t, model.RoleUser, gotSeed[0].Role)
	assert.Equal(t, "prompt", gotSeed[0].Text)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "prompt", s.SystemPrompt())
	assert.NotEmpty(t, s.ID())
	assert.False(t, s.Busy())
}

func TestNew_CredentialMissing(t *testing.T) {
	for _, cred := range []string{"", "   "} {
		called := false
		dial := func(ctx context.Context, credential string, seed []model.Turn) (ChatClient, error) {
			called = true
			return &fakeClient{}, nil
		}

		s, err := New(context.Background(), Config{Credential: cred}, dial)

		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrCredentialMissing)
		assert.Equal(t, KindCredentialMissing, KindOf(err))
		assert.False(t, called, "dialer must not run without a credential")
	}
}

func TestNew_DialFailure(t *testing.T) {
	dialErr := errors.New("invalid model")
	dial := func(ctx context.Context, credential string, seed []model.Turn) (ChatClient, error) {
		return nil, dialErr
	}

	_, err := New(context.Background(), Config{Credential: "k"}, dial)

	var rce *RemoteCallError
	require.ErrorAs(t, err, &rce)
	assert.Equal(t, "connect", rce.Op)
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, KindRemoteCallFailed, KindOf(err))
}

// =============================================================================
// RESPOND TESTS
// =============================================================================

func TestRespond_AppendsExchange(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-empty input", "How do I reverse a slice?"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{parts: []string{"Use ", "slices.Reverse."}}
			s := newTestSession(t, client)

			reply, err := s.Respond(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, "Use slices.Reverse.", reply)
			assert.Equal(t, []string{tt.input}, client.sent)

			turns := s.Transcript()
			require.Len(t, turns, 3)
			assert.Equal(t, model.RoleUser, turns[1].Role)
			assert.Equal(t, tt.input, turns[1].Text)
			assert.Equal(t, model.RoleModel, turns[2].Role)
			assert.Equal(t, "Use slices.Reverse.", turns[2].Text)
		})
	}
}

func TestRespond_ConcatenatesParts(t *testing.T) {
	s := newTestSession(t, &fakeClient{parts: []string{"Hello ", "world"}})

	reply, err := s.Respond(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello world", reply)
}

func TestRespond_LengthGrowsByTwo(t *testing.T) {
	s := newTestSession(t, &fakeClient{parts: []string{"ok"}})

	for n := 1; n <= 5; n++ {
		_, err := s.Respond(context.Background(), fmt.Sprintf("q%d", n))
		require.NoError(t, err)
		assert.Equal(t, 1+2*n, s.Len())
		assert.Equal(t, n, s.Exchanges())
	}
}

func TestRespond_LogsExchangeMetadata(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(context.Background(), Config{
		Credential:   "test-key",
		SystemPrompt: "prompt",
		Logger:       slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, dialerFor(&fakeClient{parts: []string{"secret reply"}}))
	require.NoError(t, err)

	_, err = s.Respond(context.Background(), "secret question")
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "exchange complete")
	assert.Contains(t, logs, "turns=3")
	assert.Contains(t, logs, "tokens_est=")
	assert.NotContains(t, logs, "out of user/model order")
	assert.NotContains(t, logs, "secret", "message contents are never logged")
}

func TestRespond_FailureLeavesTranscript(t *testing.T) {
	client := &fakeClient{parts: []string{"first"}}
	s := newTestSession(t, client)

	_, err := s.Respond(context.Background(), "one")
	require.NoError(t, err)
	before := s.Transcript()

	client.err = errors.New("quota exceeded")
	reply, err := s.Respond(context.Background(), "two")

	assert.Empty(t, reply)
	var rce *RemoteCallError
	require.ErrorAs(t, err, &rce)
	assert.Equal(t, "send", rce.Op)
	assert.Equal(t, KindRemoteCallFailed, KindOf(err))
	assert.Equal(t, before, s.Transcript())

	last, ok := s.LastReply()
	require.True(t, ok)
	assert.Equal(t, "first", last)
}

func TestRespond_DisplayError(t *testing.T) {
	s := newTestSession(t, &fakeClient{err: errors.New("quota exceeded")})

	reply, err := s.Respond(context.Background(), "hi")

	assert.Equal(t, "Error: quota exceeded", Display(reply, err))
}

func TestRespond_Busy(t *testing.T) {
	client := &fakeClient{parts: []string{"done"}, block: make(chan struct{})}
	s := newTestSession(t, client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Respond(context.Background(), "slow")
	}()

	require.Eventually(t, s.Busy, testTimeout, testTick)

	_, err := s.Respond(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, KindBusy, KindOf(err))

	close(client.block)
	wg.Wait()

	assert.False(t, s.Busy())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"slow"}, client.sent)
}

func TestRespond_ContextCanceled(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	s := newTestSession(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Respond(ctx, "hi")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindRemoteCallFailed, KindOf(err))
	assert.Equal(t, 1, s.Len())
}

// =============================================================================
// ERROR HELPER TESTS
// =============================================================================

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrCredentialMissing, KindCredentialMissing},
		{fmt.Errorf("load: %w", ErrCredentialMissing), KindCredentialMissing},
		{ErrBusy, KindBusy},
		{&RemoteCallError{Op: "send", Err: errors.New("x")}, KindRemoteCallFailed},
		{errors.New("other"), KindRemoteCallFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "credential_missing", KindCredentialMissing.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "reply", Display("reply", nil))
	assert.Equal(t, "Error: API key not found", Display("", ErrCredentialMissing))
	assert.Equal(t, "Error: remote send failed", Display("", &RemoteCallError{Op: "send"}))
}

func TestResponseText(t *testing.T) {
	var nilResp *Response
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "", NewResponse().Text())
	assert.Equal(t, "abc", NewResponse("a", "", "bc").Text())
}

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)
