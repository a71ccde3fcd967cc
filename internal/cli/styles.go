// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for the non-interactive commands.
//
// Styles are bound to the writer they print to, so piped or redirected
// output never carries escape sequences and NO_COLOR is respected.

package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/codeassist/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

// cliStyles holds the styles one command prints with.
type cliStyles struct {
	Prompt  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
}

// newStyles builds styles rendered for w.
func newStyles(w io.Writer) cliStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(colorProfile(w))

	return cliStyles{
		Prompt:  r.NewStyle().Foreground(styles.Teal).Bold(true),
		Error:   r.NewStyle().Foreground(styles.Rose).Bold(true),
		Success: r.NewStyle().Foreground(styles.Emerald),
		Muted:   r.NewStyle().Foreground(styles.TextMuted),
		Label:   r.NewStyle().Foreground(styles.TextSecondary).Width(20),
	}
}
