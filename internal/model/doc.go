// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation transcript.
//
// # Key Types
//
//   - Turn: One message in the conversation, tagged with its speaker role
//   - Role: Speaker enumeration (user, model)
//   - Transcript: Ordered, append-only history of turns
//
// # Usage
//
// Seed a transcript with the instruction prompt and record an exchange:
//
//	tr := model.NewTranscript(model.NewUserTurn(prompt))
//	tr.Append(model.NewUserTurn("How do I reverse a slice?"), model.NewModelTurn(reply))
//	fmt.Println(tr.Exchanges()) // 1
//
// A Transcript is not safe for concurrent use; its owner (the session)
// serializes access.
package model
