// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and error reporting for the command tree.
//
// Commands always return errors. Execute decides how they are shown and
// which exit code the process ends with.

package cli

import (
	"errors"

	"github.com/jeranaias/codeassist/internal/config"
	"github.com/jeranaias/codeassist/internal/session"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates the API credential is missing
	ExitAuthError = 4
	// ExitNetworkError indicates the remote model call failed
	ExitNetworkError = 5
)

// =============================================================================
// REPORTED ERRORS
// =============================================================================

// reportedError marks an error the command already printed in its own
// format. Execute only uses it for the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// reported wraps err as already shown to the user.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var verrs config.ValidateErrors
	if errors.As(err, &verrs) {
		return ExitConfigError
	}

	switch session.KindOf(err) {
	case session.KindCredentialMissing:
		return ExitAuthError
	case session.KindBusy:
		return ExitGeneralError
	}

	var remote *session.RemoteCallError
	if errors.As(err, &remote) {
		return ExitNetworkError
	}
	return ExitGeneralError
}
