// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the session transcript to a file on request.
//
// Supported formats:
//   - Markdown: readable transcript with YAML frontmatter
//   - JSON: complete transcript structure
//   - YAML: complete transcript structure
//
// # Usage
//
//	doc := export.NewDocument(sess.ID(), "gemini-1.5-flash", sess.Transcript())
//	exporter, err := export.NewExporter("markdown", nil)
//	path, err := export.ExportToFile(doc, exporter, &export.Options{OutputDir: dir})
//
// Exports are one-way: nothing in codeassist reads them back.
package export
