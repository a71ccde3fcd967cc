// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/jeranaias/codeassist/internal/model"
	"github.com/jeranaias/codeassist/internal/session"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// ErrNoCandidates indicates the API answered without any candidate content.
var ErrNoCandidates = errors.New("Gemini API returned no valid candidates")

// Options tune how the client reaches the API.
type Options struct {
	// BaseURL overrides the Gemini endpoint (tests, proxies).
	BaseURL string

	// HTTPClient overrides the transport used by genai.
	HTTPClient *http.Client
}

// Client is a Gemini chat bound to one conversation.
type Client struct {
	chat *genai.Chat
}

// NewClient opens a chat on modelName whose history is the seed transcript.
func NewClient(ctx context.Context, apiKey, modelName string, seed []model.Turn, opts Options) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chat, err := client.Chats.Create(ctx, modelName, nil, toHistory(seed))
	if err != nil {
		return nil, fmt.Errorf("error creating chat session: %w", err)
	}

	return &Client{chat: chat}, nil
}

// Dialer returns a session.Dialer that opens Gemini chats on modelName.
func Dialer(modelName string, opts Options) session.Dialer {
	return func(ctx context.Context, credential string, seed []model.Turn) (session.ChatClient, error) {
		return NewClient(ctx, credential, modelName, seed, opts)
	}
}

// Send posts message to the chat and returns the text parts of the first
// candidate. Reasoning ("thought") parts are skipped.
func (c *Client) Send(ctx context.Context, message string) (*session.Response, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	out := &session.Response{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		out.Parts = append(out.Parts, session.Part{Text: part.Text})
	}
	return out, nil
}

// toHistory maps transcript turns onto genai contents.
func toHistory(turns []model.Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == model.RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(t.Text, role))
	}
	return history
}
