// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/codeassist/internal/export"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// respondCmd runs one request off the Update loop.
func respondCmd(ctx context.Context, conv Conversation, text string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		reply, err := conv.Respond(ctx, text)
		return ResponseMsg{Reply: reply, Err: err, Duration: time.Since(start)}
	}
}

// exportCmd writes the current transcript to dir in format.
func exportCmd(conv Conversation, modelName, dir, format string) tea.Cmd {
	return func() tea.Msg {
		opts := &export.Options{
			OutputDir:         dir,
			IncludeTimestamps: true,
		}
		exporter, err := export.NewExporter(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		doc := export.NewDocument(conv.ID(), modelName, conv.Transcript())
		path, err := export.ExportToFile(doc, exporter, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// copyCmd hands text to the clipboard writer.
func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return CopyDoneMsg{Err: write(text)}
	}
}
