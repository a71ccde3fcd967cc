// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the codeassist TUI.
//
// Colors are Lip Gloss AdaptiveColor values, so they follow the terminal
// background automatically. A Theme can also be pinned to dark or light.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	title := theme.Title.Render("Code Assistant")
//	renderer, _ := glamour.NewTermRenderer(glamour.WithStandardStyle(theme.GlamourStyle()))
package styles
