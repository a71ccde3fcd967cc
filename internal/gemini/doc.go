// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini adapts the Google Gemini chat API to session.ChatClient.
//
// The chat handle is created once with the seeded transcript as history;
// the genai library keeps that history current after every successful send.
//
// # Usage
//
//	dial := gemini.Dialer("gemini-1.5-flash", gemini.Options{})
//	sess, err := session.New(ctx, cfg, dial)
package gemini
