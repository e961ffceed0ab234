// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// options carries the persistent flags shared by every subcommand.
type options struct {
	verbose bool
	repo    string
}

func (o *options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(
		&o.verbose,
		"verbose",
		false,
		"enable debug-level tracing",
	)

	cmd.PersistentFlags().StringVar(
		&o.repo,
		"repo",
		".",
		"path to the repository the gate protects",
	)
}

func (o *options) PreRunE(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

// New builds the pushgate root command.
func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "pushgate",
		Short:             "A signed-commit, linear-history push gate for Git servers",
		Long:              `pushgate evaluates incoming ref update triples against a repository's signing and branch-discipline policy before they are admitted, the way a server-side pre-receive hook would.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: o.PreRunE,
	}

	o.AddFlags(cmd)

	cmd.AddCommand(newHookCommand(o))

	return cmd
}
