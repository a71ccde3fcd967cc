// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/codeassist/internal/cloud"
	"github.com/jeranaias/codeassist/internal/config"
	"github.com/jeranaias/codeassist/internal/gemini"
	"github.com/jeranaias/codeassist/internal/logging"
	"github.com/jeranaias/codeassist/internal/session"
	"github.com/jeranaias/codeassist/internal/ui/chat"
	"github.com/jeranaias/codeassist/internal/ui/styles"
)

// Version information, set from main at startup.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	model      string
	provider   string
	envFile    string
	verbose    bool
}

// app carries the flags and the seams a command needs. Tests replace dial,
// newLineReader and runProgram.
type app struct {
	flags globalFlags

	// dial replaces the provider dialer chosen from the config when set.
	dial session.Dialer

	newLineReader func() lineReader
	runProgram    func(m tea.Model, opts ...tea.ProgramOption) error
}

func newApp() *app {
	return &app{
		newLineReader: newLinerReader,
		runProgram:    runProgram,
	}
}

// runProgram runs a Bubble Tea program to completion.
func runProgram(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// =============================================================================
// COMMAND TREE
// =============================================================================

// NewRootCmd builds the codeassist command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "codeassist",
		Short: "A terminal code assistant backed by a remote LLM",
		Long: `codeassist sends what you type to a remote large-language-model chat
endpoint and shows the reply.

Run without arguments to open the chat screen. The conversation lives for
as long as the process does; use ctrl+s (or /export in the repl) to save
a copy of the transcript.

The API key is read from the environment variable named by
model.api_key_env (GEMINI_API_KEY by default), optionally loaded from a
local .env file.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("codeassist %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.codeassist/config.toml)")
	pf.StringVarP(&a.flags.model, "model", "m", "", "model name passed to the provider")
	pf.StringVar(&a.flags.provider, "provider", "", "provider: gemini or openai")
	pf.StringVar(&a.flags.envFile, "env-file", "", "file to load the API key from (default .env)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newAskCmd(a),
		newREPLCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the process
// exit code.
func Execute() int {
	return execute(NewRootCmd())
}

func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err != nil {
		var rep *reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	return ExitCode(err)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the config file and applies the persistent flags on top
// of it. Flags win over environment overrides and the file.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFromPath(a.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if a.flags.model != "" {
		cfg.Model.Name = a.flags.model
	}
	if a.flags.provider != "" {
		cfg.Model.Provider = strings.ToLower(strings.TrimSpace(a.flags.provider))
	}
	if a.flags.envFile != "" {
		cfg.Model.EnvFile = a.flags.envFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// configPath returns the --config flag or the default config file path.
func (a *app) configPath() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.ConfigPath()
}

// logLevel is debug with --verbose, otherwise the configured level.
func (a *app) logLevel(cfg *config.Config) slog.Level {
	if a.flags.verbose {
		return slog.LevelDebug
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// stderrLogger is the logger of the line-oriented commands: warnings only
// unless --verbose.
func (a *app) stderrLogger(w io.Writer) *slog.Logger {
	if a.flags.verbose {
		return logging.New(w, slog.LevelDebug)
	}
	return logging.New(w, slog.LevelWarn)
}

// dialerFor picks the chat adapter for the configured provider.
func (a *app) dialerFor(cfg *config.Config) session.Dialer {
	if a.dial != nil {
		return a.dial
	}
	switch strings.ToLower(cfg.Model.Provider) {
	case config.ProviderOpenAI:
		return cloud.Dialer(cfg.Model.Name, cfg.Model.BaseURL)
	default:
		return gemini.Dialer(cfg.Model.Name, gemini.Options{BaseURL: cfg.Model.BaseURL})
	}
}

// openSession reads the credential and opens the conversation. A missing
// credential returns before any adapter is built.
func (a *app) openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Session, error) {
	key, err := config.Credential(cfg)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, session.Config{
		Credential:   key,
		SystemPrompt: cfg.Model.SystemPrompt,
		Logger:       logger,
	}, a.dialerFor(cfg))
}

// report prints err the way the output area would and marks it reported.
func report(w io.Writer, err error) error {
	st := newStyles(w)
	fmt.Fprintln(w, st.Error.Render(session.Display("", err)))
	return reported(err)
}

// =============================================================================
// TUI
// =============================================================================

// runTUI opens the chat screen. A session that cannot be opened is shown as
// an error on the screen, which then only allows quitting.
func (a *app) runTUI(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file
	logger, closer, err := logging.OpenFile(cfg.Log.File, a.logLevel(cfg))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; logging disabled\n", err)
		logger = logging.Discard()
	} else {
		defer closer.Close()
	}

	sess, startErr := a.openSession(cmd.Context(), cfg, logger)
	if startErr != nil {
		logger.Error("session not opened",
			"kind", session.KindOf(startErr).String(),
			"error", startErr)
	}

	opts := []tea.ProgramOption{
		tea.WithContext(cmd.Context()),
		tea.WithMouseCellMotion(),
	}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	if err := a.runProgram(newChatModel(cfg, sess, startErr, logger), opts...); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Already shown on screen; keep the exit code
	return reported(startErr)
}

// newChatModel builds the chat screen for sess, or for startErr when the
// session could not be opened.
func newChatModel(cfg *config.Config, sess *session.Session, startErr error, logger *slog.Logger) chat.Model {
	opts := chat.Options{
		StartupErr:   startErr,
		Theme:        styles.NewTheme(cfg.UI.Theme),
		ModelName:    cfg.Model.Name,
		Placeholder:  cfg.UI.Placeholder,
		WordWrap:     cfg.UI.WordWrap,
		Markdown:     cfg.UI.Markdown,
		ExportDir:    cfg.Export.Dir,
		ExportFormat: cfg.Export.Format,
		Logger:       logger,
	}
	// A nil *Session must not become a non-nil Conversation
	if sess != nil {
		opts.Conversation = sess
	}
	return chat.New(opts)
}
