// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saab-simc-admin/workflow-tools/internal/admission"
	"github.com/saab-simc-admin/workflow-tools/internal/collaborators"
	"github.com/saab-simc-admin/workflow-tools/internal/gitconfig"
	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
	"github.com/saab-simc-admin/workflow-tools/internal/keyring"
	"github.com/saab-simc-admin/workflow-tools/internal/policy"
)

// preReceiveOptions carries the flags specific to "hook pre-receive".
type preReceiveOptions struct {
	root    *options
	keyring string
}

func (o *preReceiveOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&o.keyring,
		"keyring",
		"",
		"path to the armored OpenPGP keyring (defaults to keyring.asc in the repository's git directory)",
	)
}

func (o *preReceiveOptions) Run(cmd *cobra.Command, _ []string) error {
	repo, err := gitinterface.LoadRepository(o.root.repo)
	if err != nil {
		return err
	}

	allowList, err := collaborators.Load(filepath.Join(repo.PrivateDir(), collaborators.FileName))
	if err != nil {
		return err
	}

	keyringPath := o.keyring
	if keyringPath == "" {
		keyringPath = filepath.Join(repo.PrivateDir(), "keyring.asc")
	}
	kr, err := keyring.Load(keyringPath)
	if err != nil {
		return err
	}

	// NewReader already degrades to an all-false Reader when the config
	// read fails, so that failure is not treated as fatal here.
	config, _ := gitconfig.NewReader(repo)

	engine := &policy.Engine{
		Repo:      repo,
		Keyring:   kr,
		AllowList: allowList,
		Config:    config,
	}

	reporter := admission.NewReporter(cmd.OutOrStdout())
	driver := admission.NewDriver(engine, reporter)

	code := driver.Run(cmd.InOrStdin())
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// newPreReceiveCommand builds "hook pre-receive", the gate's actual entry
// point: it reads update triples from stdin and exits non-zero to reject
// the push.
func newPreReceiveCommand(root *options) *cobra.Command {
	o := &preReceiveOptions{root: root}
	cmd := &cobra.Command{
		Use:               "pre-receive",
		Short:             "Evaluate a batch of ref updates read from stdin",
		RunE:              o.Run,
		DisableAutoGenTag: true,
		SilenceErrors:     false,
	}
	o.AddFlags(cmd)
	return cmd
}
