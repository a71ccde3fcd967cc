// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/codeassist/internal/util"
)

// Rows used by everything except the viewport: title, label, input box (3),
// output border (2), status, help.
const chromeHeight = 9

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	sb.WriteString(m.theme.Label.Render(inputLabel))
	sb.WriteString("\n")

	inputStyle := m.theme.InputFocus
	if !m.ready() {
		inputStyle = m.theme.Input
	}
	sb.WriteString(inputStyle.Width(m.innerWidth()).Render(m.input.View()))
	sb.WriteString("\n")

	sb.WriteString(m.theme.Output.Width(m.innerWidth()).Render(m.viewport.View()))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize fits the components to a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.Width = max(m.innerWidth()-4, 10)
	m.viewport.Width = m.innerWidth()
	m.viewport.Height = max(height-chromeHeight, 3)
	m.refreshViewport()
}

// innerWidth is the content width inside bordered boxes.
func (m Model) innerWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(m.width-4, 20)
}

// refreshViewport re-renders the output area content.
func (m *Model) refreshViewport() {
	switch {
	case m.output == "":
		m.viewport.SetContent(m.theme.Placeholder.Render(outputPlaceholder))
	case m.isError:
		m.viewport.SetContent(m.theme.Error.Render(wrap(m.output, m.contentWidth())))
	default:
		m.viewport.SetContent(m.renderReply(m.output))
	}
}

// contentWidth is the width replies are wrapped to.
func (m Model) contentWidth() int {
	return min(m.innerWidth()-2, m.opts.WordWrap)
}

// renderReply renders reply as Markdown, falling back to wrapped text.
func (m *Model) renderReply(reply string) string {
	width := m.contentWidth()
	if !m.opts.Markdown {
		return wrap(reply, width)
	}

	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.theme.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.logger.Warn("markdown renderer unavailable", "error", err)
			return wrap(reply, width)
		}
		m.renderer = r
		m.rendererWidth = width
	}

	out, err := m.renderer.Render(reply)
	if err != nil {
		return wrap(reply, width)
	}
	return strings.Trim(out, "\n")
}

// wrap soft-wraps text to width columns.
func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderTitle() string {
	title := m.theme.Title.Render("Code Assistant")
	if m.opts.ModelName == "" {
		return title
	}
	name := m.theme.Status.Render(util.TruncateWidth(m.opts.ModelName, 40))
	gap := max(m.innerWidth()+4-lipgloss.Width(title)-lipgloss.Width(name), 1)
	return title + strings.Repeat(" ", gap) + name
}

func (m Model) renderStatus() string {
	var parts []string

	switch {
	case !m.ready():
		parts = append(parts, m.theme.Error.Render("not connected"))
	case m.busy:
		elapsed := time.Since(m.started).Round(100 * time.Millisecond)
		parts = append(parts, m.spinner.View()+m.theme.StatusBusy.Render(fmt.Sprintf(" thinking %s", elapsed)))
	default:
		parts = append(parts, m.theme.StatusOK.Render("ready"))
	}

	if m.ready() {
		parts = append(parts, fmt.Sprintf("%d exchanges", m.opts.Conversation.Exchanges()))
	}
	if m.status != "" {
		parts = append(parts, util.TruncateWidth(m.status, max(m.innerWidth()-30, 10)))
	}

	return m.theme.Status.Render(strings.Join(parts, " · "))
}

func (m Model) renderHelp() string {
	var items []string
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		items = append(items, m.theme.Shortcut(h.Key, h.Desc))
	}
	return " " + strings.Join(items, "  ")
}
