// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			st := newStyles(out)
			fmt.Fprintf(out, "codeassist %s\n", Version)
			fmt.Fprintf(out, "  %s%s\n", st.Label.Render("Commit:"), GitCommit)
			fmt.Fprintf(out, "  %s%s\n", st.Label.Render("Built:"), BuildDate)
			fmt.Fprintf(out, "  %s%s/%s %s\n", st.Label.Render("Platform:"), runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
