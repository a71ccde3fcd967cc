// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the interactive chat screen of codeassist.

The screen has a single-line input, a read-only scrollable output area that
shows the latest reply, and a status line. It only calls into the session:
Enter hands the current input text to Conversation.Respond and the result,
or "Error: {details}", replaces the output area.

# Key Components

## Model (model.go)

The Bubble Tea model holding the input, viewport and spinner, the current
output and the in-flight request state.

## Update Loop (update.go)

Handles key presses, window resizes and the asynchronous results of
requests, exports and clipboard copies.

## View Rendering (view.go)

Title, input, output box, status line and shortcut help. Replies are
rendered as Markdown with glamour when enabled.

# Keys

  - Enter: send the input
  - Ctrl+C: cancel an in-flight request, otherwise quit
  - Ctrl+S: export the transcript
  - Ctrl+Y: copy the latest reply
  - PgUp/PgDn, Home/End: scroll the output

# Usage

	m := chat.New(chat.Options{
	    Conversation: sess,
	    ModelName:    "gemini-1.5-flash",
	    Theme:        styles.NewTheme("auto"),
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
*/
package chat
