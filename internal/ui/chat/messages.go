// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// ResponseMsg carries the result of one Respond call.
type ResponseMsg struct {
	Reply    string
	Err      error
	Duration time.Duration
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg reports the outcome of a clipboard copy.
type CopyDoneMsg struct {
	Err error
}
