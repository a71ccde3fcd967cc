// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Usage:
//
//	codeassist ask "how do I reverse a slice in Go?"
//	git diff | codeassist ask "review this change" --stdin
//
// The reply is rendered as markdown when stdout is a terminal and printed
// plain otherwise.

package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/codeassist/internal/config"
	"github.com/jeranaias/codeassist/internal/ui/styles"
)

// maxStdinBytes bounds what ask reads from a pipe.
const maxStdinBytes = 1 << 20

func newAskCmd(a *app) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "ask [text...]",
		Short: "Send one message and print the reply",
		Long: `Send one message to the model and print the reply.

The arguments are joined with spaces. With --stdin, or when no arguments
are given and stdin is not a terminal, the message is read from stdin and
appended after the arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, args, fromStdin)
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the message from stdin")
	return cmd
}

func (a *app) runAsk(cmd *cobra.Command, args []string, fromStdin bool) error {
	message := strings.Join(args, " ")
	if fromStdin || (len(args) == 0 && !isTerminal(cmd.InOrStdin())) {
		piped, err := readMessage(cmd.InOrStdin())
		if err != nil {
			return err
		}
		message = joinMessage(message, piped)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// Ctrl+C cancels the request instead of killing the process
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := a.stderrLogger(cmd.ErrOrStderr())
	sess, err := a.openSession(ctx, cfg, logger)
	if err != nil {
		return report(cmd.ErrOrStderr(), err)
	}

	reply, err := sess.Respond(ctx, message)
	if err != nil {
		return report(cmd.ErrOrStderr(), err)
	}

	newReplyPrinter(cmd.OutOrStdout(), cfg).Print(reply)
	return nil
}

// readMessage reads at most maxStdinBytes from r and drops the trailing
// newline a shell pipe adds.
func readMessage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// joinMessage puts piped input after the argument text.
func joinMessage(text, piped string) string {
	switch {
	case text == "":
		return piped
	case piped == "":
		return text
	default:
		return text + "\n\n" + piped
	}
}

// =============================================================================
// REPLY RENDERING
// =============================================================================

// replyPrinter writes replies, through glamour when the writer is a
// terminal and markdown is enabled.
type replyPrinter struct {
	w        io.Writer
	renderer *glamour.TermRenderer
}

func newReplyPrinter(w io.Writer, cfg *config.Config) *replyPrinter {
	p := &replyPrinter{w: w}
	if !cfg.UI.Markdown || !isTerminal(w) {
		return p
	}

	width := min(terminalWidth(w), cfg.UI.WordWrap)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.NewTheme(cfg.UI.Theme).GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		p.renderer = renderer
	}
	return p
}

// Print writes reply followed by a newline. Render failures fall back to
// the raw text.
func (p *replyPrinter) Print(reply string) {
	if p.renderer != nil {
		if rendered, err := p.renderer.Render(reply); err == nil {
			fmt.Fprint(p.w, rendered)
			return
		}
	}
	fmt.Fprintln(p.w, reply)
}
