// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/codeassist/internal/model"
	"github.com/jeranaias/codeassist/internal/session"
)

const okBody = `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"world"}]},"finishReason":"STOP"}]}`

// recorder captures the number of contents in each generateContent call.
type recorder struct {
	mu       sync.Mutex
	contents []int
	paths    []string
}

func (r *recorder) handler(t *testing.T, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Contents []json.RawMessage `json:"contents"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		r.mu.Lock()
		r.contents = append(r.contents, len(payload.Contents))
		r.paths = append(r.paths, req.URL.Path)
		r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func seed() []model.Turn {
	return []model.Turn{model.NewUserTurn("You are a code assistant.")}
}

func TestClientSend_ConcatenatesParts(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(t, http.StatusOK, okBody))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash", seed(), Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, resp.Parts, 2)
	assert.Equal(t, "Hello world", resp.Text())

	require.Len(t, rec.paths, 1)
	assert.Contains(t, rec.paths[0], "gemini-1.5-flash")
}

func TestClientSend_CarriesHistory(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(t, http.StatusOK, okBody))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "", seed(), Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = client.Send(context.Background(), "second")
	require.NoError(t, err)

	// seed + message, then seed + exchange + message
	assert.Equal(t, []int{2, 4}, rec.contents)
	require.NotEmpty(t, rec.paths)
	assert.Contains(t, rec.paths[0], DefaultModel)
}

func TestClientSend_APIError(t *testing.T) {
	body := `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
	server := httptest.NewServer((&recorder{}).handler(t, http.StatusTooManyRequests, body))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash", seed(), Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), "hi")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClientSend_NoCandidates(t *testing.T) {
	server := httptest.NewServer((&recorder{}).handler(t, http.StatusOK, `{"candidates":[]}`))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash", seed(), Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestClientSend_SkipsThoughts(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"thinking...","thought":true},{"text":"answer"}]}}]}`
	server := httptest.NewServer((&recorder{}).handler(t, http.StatusOK, body))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash", seed(), Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text())
}

func TestDialer_WithSession(t *testing.T) {
	server := httptest.NewServer((&recorder{}).handler(t, http.StatusOK, okBody))
	defer server.Close()

	sess, err := session.New(context.Background(), session.Config{
		Credential:   "test-key",
		SystemPrompt: "You are a code assistant.",
	}, Dialer("gemini-1.5-flash", Options{BaseURL: server.URL}))
	require.NoError(t, err)

	reply, err := sess.Respond(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", reply)
	assert.Equal(t, 3, sess.Len())
}

func TestToHistory(t *testing.T) {
	turns := []model.Turn{
		model.NewUserTurn("seed"),
		model.NewUserTurn("q"),
		model.NewModelTurn("a"),
	}

	history := toHistory(turns)

	require.Len(t, history, 3)
	assert.Equal(t, "user", string(history[0].Role))
	assert.Equal(t, "model", string(history[2].Role))
	assert.True(t, strings.HasPrefix(history[1].Parts[0].Text, "q"))
}
