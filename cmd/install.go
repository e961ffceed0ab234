// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// preReceiveScript execs the gate's own binary as the repository's
// pre-receive hook.
var preReceiveScript = []byte(`#!/bin/sh
set -e

if ! command -v pushgate > /dev/null
then
    echo "pushgate could not be found"
    exit 1
fi

exec pushgate hook pre-receive "$@"
`)

type installOptions struct {
	root     *options
	hooksDir string
	force    bool
}

func (o *installOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&o.hooksDir,
		"hooks-dir",
		"",
		"hooks directory to install into (defaults to <repo>/hooks)",
	)
	cmd.Flags().BoolVarP(
		&o.force,
		"force",
		"f",
		false,
		"overwrite an existing pre-receive hook",
	)
}

func (o *installOptions) Run(cmd *cobra.Command, _ []string) error {
	hooksDir := o.hooksDir
	if hooksDir == "" {
		hooksDir = filepath.Join(o.root.repo, "hooks")
	}

	target := filepath.Join(hooksDir, "pre-receive")

	if !o.force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%q already exists, use --force to overwrite", target)
		}
	}

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("unable to create hooks directory %q: %w", hooksDir, err)
	}

	if err := os.WriteFile(target, preReceiveScript, 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write %q: %w", target, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "installed pre-receive hook at %s\n", target)
	return nil
}

// newInstallCommand builds "hook install", a deployment convenience that
// writes a shell shim invoking "pushgate hook pre-receive" into a hooks
// directory.
func newInstallCommand(root *options) *cobra.Command {
	o := &installOptions{root: root}
	cmd := &cobra.Command{
		Use:               "install",
		Short:             "Install the pre-receive hook shim into a hooks directory",
		RunE:              o.Run,
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)
	return cmd
}
