// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the codeassist command tree.
//
// The root command opens the chat TUI. Subcommands cover the
// non-interactive paths:
//
//   - ask: one exchange, reply printed to stdout
//   - repl: line-oriented chat with in-memory history
//   - config: show, path, init and get
//   - version: build information
//
// Every command builds its own session from the loaded configuration and
// passes it explicitly to whatever presents it. Nothing here keeps
// process-wide state apart from the build version strings.
package cli
