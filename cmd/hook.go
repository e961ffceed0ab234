// SPDX-License-Identifier: Apache-2.0

package cmd

import "github.com/spf13/cobra"

// newHookCommand groups the subcommands a DVCS host's hook directory
// actually invokes.
func newHookCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "hook",
		Short:             "Run or install the push gate's Git hooks",
		DisableAutoGenTag: true,
	}

	cmd.AddCommand(newPreReceiveCommand(o))
	cmd.AddCommand(newInstallCommand(o))

	return cmd
}
