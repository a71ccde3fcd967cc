// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the single conversation of a codeassist run.
//
// A Session holds the instruction prompt and the transcript of every
// completed exchange. It forwards each user message to a ChatClient and
// records the exchange only when the remote call succeeds.
//
// # Key Types
//
//   - Session: Transcript owner and request/response entry point
//   - ChatClient: Remote LLM boundary (Gemini, OpenAI-compatible)
//   - Response: Ordered text parts returned by a ChatClient
//   - RemoteCallError: Wraps any failure reported by the ChatClient
//
// # Usage
//
//	sess, err := session.New(ctx, session.Config{
//	    Credential:   key,
//	    SystemPrompt: prompt,
//	}, gemini.Dialer("gemini-1.5-flash", gemini.Options{}))
//	if err != nil {
//	    fmt.Println(session.Display("", err))
//	    return
//	}
//	reply, err := sess.Respond(ctx, "What does defer do?")
//	fmt.Println(session.Display(reply, err))
//
// # Errors
//
// ErrCredentialMissing is returned by New when no API key is configured; the
// dialer is never invoked. Failures of the remote call come back as
// *RemoteCallError and leave the transcript untouched. ErrBusy rejects a
// second Respond while one is still in flight.
package session
