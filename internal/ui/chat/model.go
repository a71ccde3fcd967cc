// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat screen of codeassist.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/codeassist/internal/model"
	"github.com/jeranaias/codeassist/internal/ui/styles"
)

// Texts shown by the screen.
const (
	inputLabel         = "Enter code or question:"
	outputPlaceholder  = "Response will appear here."
	defaultPlaceholder = "Ask about some code..."
)

// Conversation is the session the screen talks to.
type Conversation interface {
	Respond(ctx context.Context, text string) (string, error)
	Transcript() []model.Turn
	ID() string
	Exchanges() int
}

// Options configure a chat screen.
type Options struct {
	// Conversation answers requests. Nil together with StartupErr.
	Conversation Conversation

	// StartupErr is shown instead of a reply when the session could not be
	// opened; the screen then accepts no requests.
	StartupErr error

	Theme       *styles.Theme
	ModelName   string
	Placeholder string

	// WordWrap caps the reply width in columns.
	WordWrap int

	// Markdown renders replies with glamour.
	Markdown bool

	ExportDir    string
	ExportFormat string

	// Clipboard writes text to the system clipboard. Defaults to
	// clipboard.WriteAll.
	Clipboard func(string) error

	Logger *slog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	opts   Options
	theme  *styles.Theme
	keyMap KeyMap
	logger *slog.Logger

	// Dimensions
	width  int
	height int

	// UI Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// renderer is rebuilt when the output width changes
	renderer      *glamour.TermRenderer
	rendererWidth int

	// Output area: the latest reply or error, never the full history
	output  string
	isError bool
	reply   string

	// Request state
	busy      bool
	started   time.Time
	cancelMgr *cancelManager

	// Status message shown below the output
	status string
}

// New creates a chat model.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = opts.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = defaultPlaceholder
	}
	ti.CharLimit = 0
	ti.Focus()

	vp := viewport.New(80, 10)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		opts:      opts,
		theme:     theme,
		keyMap:    DefaultKeyMap(),
		logger:    logger,
		input:     ti,
		viewport:  vp,
		spinner:   sp,
		cancelMgr: newCancelManager(),
	}

	if opts.StartupErr != nil {
		// Nothing can be sent, so the input takes no keys
		m.input.Blur()
		m.setError(opts.StartupErr)
	}
	m.refreshViewport()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// ready reports whether the screen can send a request.
func (m Model) ready() bool {
	return m.opts.Conversation != nil && m.opts.StartupErr == nil
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// Output returns the raw text of the output area.
func (m Model) Output() string {
	if m.output == "" {
		return outputPlaceholder
	}
	return m.output
}
