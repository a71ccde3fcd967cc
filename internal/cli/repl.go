// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-oriented chat loop.
//
// Every line typed is one exchange with the session, including empty ones.
// Lines whose first word is a known slash command are handled locally:
//
//	/help             list commands
//	/export [format]  save the transcript
//	/quit, /exit      leave
//
// History lives in memory only; nothing is written to disk unless the user
// exports.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/codeassist/internal/config"
	"github.com/jeranaias/codeassist/internal/export"
	"github.com/jeranaias/codeassist/internal/session"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader is the line editor the loop reads from. *liner.State
// satisfies it.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

func newLinerReader() lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// =============================================================================
// COMMAND
// =============================================================================

func newREPLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "repl",
		Aliases: []string{"chat"},
		Short:   "Chat line by line without the full-screen interface",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	}
}

func (a *app) runREPL(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	logger := a.stderrLogger(cmd.ErrOrStderr())
	sess, err := a.openSession(cmd.Context(), cfg, logger)
	if err != nil {
		return report(cmd.ErrOrStderr(), err)
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	printer := newReplyPrinter(out, cfg)

	fmt.Fprintf(out, "%s %s\n", st.Prompt.Render("codeassist"),
		st.Muted.Render(cfg.Model.Name+" · /help for commands, ctrl+d to quit"))

	rl := a.newLineReader()
	defer rl.Close()

	for {
		line, err := rl.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				break
			}
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			rl.AppendHistory(line)
		}

		if name, arg, ok := slashCommand(line); ok {
			if quit := a.handleSlash(out, st, cfg, sess, name, arg); quit {
				break
			}
			continue
		}

		// Ctrl+C during a request cancels only that request
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		reply, err := sess.Respond(ctx, line)
		stop()
		if err != nil {
			fmt.Fprintln(out, st.Error.Render(session.Display("", err)))
			continue
		}
		printer.Print(reply)
	}

	fmt.Fprintln(out, st.Muted.Render(fmt.Sprintf("%d exchanges", sess.Exchanges())))
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

var slashCommands = map[string]string{
	"/help":   "list commands",
	"/export": "save the transcript ([markdown|json|yaml])",
	"/quit":   "leave",
	"/exit":   "leave",
}

// slashCommand splits line into a known command and its argument. Lines
// that merely start with a slash, such as code comments, are not commands.
func slashCommand(line string) (name, arg string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	name = strings.ToLower(fields[0])
	if _, known := slashCommands[name]; !known {
		return "", "", false
	}
	return name, strings.Join(fields[1:], " "), true
}

// handleSlash runs one slash command and reports whether the loop ends.
func (a *app) handleSlash(out io.Writer, st cliStyles, cfg *config.Config, sess *session.Session, name, arg string) bool {
	switch name {
	case "/quit", "/exit":
		return true
	case "/export":
		path, err := exportTranscript(sess, cfg, arg)
		if err != nil {
			fmt.Fprintln(out, st.Error.Render("Error: "+err.Error()))
			return false
		}
		fmt.Fprintln(out, st.Success.Render("Exported to "+path))
	default:
		for _, cmd := range []string{"/help", "/export", "/quit", "/exit"} {
			fmt.Fprintf(out, "  %s %s\n", st.Label.Render(cmd), slashCommands[cmd])
		}
	}
	return false
}

// exportTranscript writes the session transcript to the configured export
// directory. An empty format uses export.format.
func exportTranscript(sess *session.Session, cfg *config.Config, format string) (string, error) {
	if format == "" {
		format = cfg.Export.Format
	}
	opts := &export.Options{
		OutputDir:         cfg.Export.Dir,
		IncludeTimestamps: true,
	}
	exporter, err := export.NewExporter(format, opts)
	if err != nil {
		return "", err
	}
	doc := export.NewDocument(sess.ID(), cfg.Model.Name, sess.Transcript())
	return export.ExportToFile(doc, exporter, opts)
}
