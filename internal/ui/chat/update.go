// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/codeassist/internal/session"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ResponseMsg:
		return m.handleResponse(msg), nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.Err)
			m.logger.Warn("export failed", "error", msg.Err)
		} else {
			m.status = "Exported to " + msg.Path
			m.logger.Info("transcript exported", "path", msg.Path)
		}
		return m, nil

	case CopyDoneMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			m.status = "Reply copied to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		if m.busy && m.cancelMgr.cancel() {
			m.status = "Cancelling..."
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Quit):
		m.cancelMgr.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Export):
		if !m.ready() {
			return m, nil
		}
		m.status = "Exporting..."
		return m, exportCmd(m.opts.Conversation, m.opts.ModelName, m.opts.ExportDir, m.opts.ExportFormat)

	case key.Matches(msg, m.keyMap.Copy):
		if m.reply == "" {
			m.status = "Nothing to copy yet"
			return m, nil
		}
		return m, copyCmd(m.opts.Clipboard, m.reply)

	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	for _, b := range m.keyMap.scrollKeys() {
		if key.Matches(msg, b) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the current input. Empty input is sent as-is.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.ready() {
		return m, nil
	}
	if m.busy {
		m.status = "Still waiting for the previous reply"
		return m, nil
	}

	text := m.input.Value()
	m.input.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	m.busy = true
	m.started = time.Now()
	m.status = ""
	m.logger.Debug("request submitted", "input_len", len(text))

	return m, tea.Batch(m.spinner.Tick, respondCmd(ctx, m.opts.Conversation, text))
}

// handleResponse replaces the output area with the reply or the error.
func (m Model) handleResponse(msg ResponseMsg) Model {
	m.busy = false
	m.cancelMgr.cancel()

	if msg.Err != nil {
		m.logger.Warn("request failed",
			"kind", session.KindOf(msg.Err).String(),
			"duration", msg.Duration)
		m.setError(msg.Err)
	} else {
		m.output = session.Display(msg.Reply, nil)
		m.isError = false
		m.reply = msg.Reply
	}

	m.refreshViewport()
	m.viewport.GotoTop()
	return m
}

// setError puts the display form of err in the output area.
func (m *Model) setError(err error) {
	m.output = session.Display("", err)
	m.isError = true
}
