// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const branchRefPrefix = "refs/heads/"

// BranchTips returns the current tip OID of every local branch, keyed by the
// full ref name (refs/heads/<name>).
func (r *Repository) BranchTips() (map[string]Hash, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate references: %w", err)
	}
	defer iter.Close()

	tips := map[string]Hash{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if !strings.HasPrefix(name, branchRefPrefix) {
			return nil
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		tips[name] = FromPlumbing(ref.Hash())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to walk references: %w", err)
	}

	return tips, nil
}

// GetGitConfig returns the repository's local configuration flattened into
// "section.subsection.key": value pairs, mirroring how the DVCS's config
// interface is documented to behave.
func (r *Repository) GetGitConfig() (map[string]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("unable to read repository config: %w", err)
	}

	flattened := map[string]string{}
	raw := cfg.Raw
	if raw == nil {
		return flattened, nil
	}

	for _, section := range raw.Sections {
		for _, option := range section.Options {
			key := strings.ToLower(section.Name + "." + option.Key)
			flattened[key] = option.Value
		}
		for _, sub := range section.Subsections {
			for _, option := range sub.Options {
				key := strings.ToLower(section.Name + "." + sub.Name + "." + option.Key)
				flattened[key] = option.Value
			}
		}
	}

	return flattened, nil
}
