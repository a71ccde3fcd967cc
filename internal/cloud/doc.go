// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides a client for OpenAI-compatible chat completion APIs.
//
// Any endpoint that speaks the /chat/completions protocol (OpenAI, OpenRouter,
// a local vLLM or llama.cpp server) can back a codeassist session through
// this package.
//
// # Key Types
//
//   - Client: Chat bound to one conversation, implements session.ChatClient
//   - ChatMessage: Wire message with role and content
//   - APIError: Structured error returned by the API
//
// # Usage
//
//	client := cloud.NewClient(apiKey, "gpt-4o-mini", seed).
//	    WithBaseURL("https://openrouter.ai/api/v1")
//	resp, err := client.Send(ctx, "Explain this regex")
//
// # Error Handling
//
// HTTP failures are mapped to ErrAuthFailed, ErrRateLimited,
// ErrModelNotFound and ErrInsufficientCredits; anything else comes back as
// *APIError. Requests are never retried.
package cloud
