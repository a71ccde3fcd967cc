// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCredentialMissing indicates no API key was configured.
	ErrCredentialMissing = errors.New("API key not found")

	// ErrBusy indicates a request is already in flight.
	ErrBusy = errors.New("a request is already in progress")
)

// RemoteCallError wraps a failure reported by the chat client.
type RemoteCallError struct {
	Op  string // "connect" or "send"
	Err error
}

// Error returns the underlying client message unchanged, so it can be shown
// to the user as-is.
func (e *RemoteCallError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote %s failed", e.Op)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind classifies errors returned by this package.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindCredentialMissing
	KindRemoteCallFailed
	KindBusy
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCredentialMissing:
		return "credential_missing"
	case KindRemoteCallFailed:
		return "remote_call_failed"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Errors that did not come from this package are
// treated as remote failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrCredentialMissing) {
		return KindCredentialMissing
	}
	if errors.Is(err, ErrBusy) {
		return KindBusy
	}
	return KindRemoteCallFailed
}

// Display returns the text the presentation layer shows for a Respond
// result: the reply itself, or "Error: " followed by the error message.
func Display(reply string, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	return reply
}
