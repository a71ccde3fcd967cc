// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/codeassist/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a document to Markdown format.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("session: %s\n", escapeYAML(doc.SessionID)))
	sb.WriteString(fmt.Sprintf("model: %s\n", escapeYAML(doc.Model)))
	if title := doc.Title(); title != "" {
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(title)))
	}
	sb.WriteString(fmt.Sprintf("exchanges: %d\n", doc.Exchanges()))
	sb.WriteString(fmt.Sprintf("exported: %s\n", doc.ExportedAt.Format(time.RFC3339)))
	sb.WriteString("generator: codeassist\n")
	sb.WriteString("---\n\n")

	sb.WriteString("# Code Assistant Session\n\n")
	sb.WriteString(fmt.Sprintf("- **Model**: %s\n", escapeMarkdown(doc.Model)))
	sb.WriteString(fmt.Sprintf("- **Exported**: %s\n", formatTimestamp(doc.ExportedAt)))
	sb.WriteString(fmt.Sprintf("- **Exchanges**: %d\n\n", doc.Exchanges()))

	if e.options.IncludeSystemPrompt {
		sb.WriteString("## Instructions\n\n")
		sb.WriteString(quote(doc.Turns[0].Text))
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Conversation\n\n")

	turns := doc.Turns[1:]
	if len(turns) == 0 {
		sb.WriteString("*No exchanges yet.*\n")
	}
	for i, turn := range turns {
		label := turn.Role.DisplayName()
		if e.options.IncludeTimestamps && !turn.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(turn.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(formatTurnContent(turn))
		sb.WriteString("\n\n")

		if i < len(turns)-1 && turn.Role == model.RoleModel {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatTurnContent renders turn text. Replies are already Markdown and
// pass through; an empty turn gets a placeholder.
func formatTurnContent(turn model.Turn) string {
	if turn.IsEmpty() {
		return "*(empty)*"
	}
	return strings.TrimRight(turn.Text, "\n")
}

// quote renders s as a Markdown blockquote.
func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
