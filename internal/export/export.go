// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the session transcript to a file on request.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/codeassist/internal/model"
	"github.com/jeranaias/codeassist/internal/util"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// titleLen caps the Markdown title taken from the first question.
const titleLen = 60

// Document is the snapshot of a session that gets exported.
type Document struct {
	SessionID  string       `json:"session_id" yaml:"session_id"`
	Model      string       `json:"model" yaml:"model"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Turns      []model.Turn `json:"turns" yaml:"turns"`
}

// NewDocument builds a document stamped with the current time.
func NewDocument(sessionID, modelName string, turns []model.Turn) *Document {
	return &Document{
		SessionID:  sessionID,
		Model:      modelName,
		ExportedAt: time.Now(),
		Turns:      turns,
	}
}

// Exchanges returns the number of user/model pairs after the seed turn.
func (d *Document) Exchanges() int {
	if len(d.Turns) == 0 {
		return 0
	}
	return (len(d.Turns) - 1) / 2
}

// Title is a one-line preview of the first question, or "" before any
// exchange.
func (d *Document) Title() string {
	if len(d.Turns) < 2 {
		return ""
	}
	return d.Turns[1].Preview(titleLen)
}

// validate rejects documents that cannot be exported.
func (d *Document) validate() error {
	if d == nil {
		return errors.New("document is nil")
	}
	if len(d.Turns) == 0 {
		return errors.New("document has no turns")
	}
	for i, turn := range d.Turns {
		if !turn.Role.Valid() {
			return fmt.Errorf("turn %d has unknown role %q", i, turn.Role)
		}
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a document to the target format and returns the content.
	Export(doc *Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// IncludeSystemPrompt renders the seed turn in Markdown output.
	IncludeSystemPrompt bool

	// IncludeTimestamps includes per-turn timestamps in Markdown output.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:           ".",
		IncludeSystemPrompt: false,
		IncludeTimestamps:   true,
	}
}

// NewExporter returns the exporter for format ("markdown", "md", "json",
// "yaml" or "yml").
func NewExporter(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a document to a new file in opts.OutputDir using the
// given exporter. Returns the output file path.
func ExportToFile(doc *Document, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("codeassist_%s_%s%s",
		sanitizeFilename(shortID(doc.SessionID)),
		doc.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// shortID keeps the trailing random segment of a UUID for filenames.
func shortID(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 && i < len(id)-1 {
		id = id[i+1:]
	}
	return util.TruncateRunes(id, 12)
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "session"
	}
	return string(result)
}

// formatTimestamp formats a time for display in exports.
func formatTimestamp(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

// formatShortTimestamp formats a time for per-turn headings.
func formatShortTimestamp(t time.Time) string {
	return t.Format("3:04 PM")
}
