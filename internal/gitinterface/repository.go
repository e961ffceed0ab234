// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is a thin handle around a go-git repository, opened once per
// invocation and reused across every update triple in the push. It also
// remembers the GIT_DIR it was opened from, since the gate's own private
// state (the collaborator allow-list) lives alongside the repository
// rather than inside go-git's object store.
type Repository struct {
	repo       *git.Repository
	gitDirPath string
}

// LoadRepository opens the repository rooted at path (a working tree or a
// bare repository, as reported by the DVCS host).
func LoadRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("unable to open repository at %q: %w", path, err)
	}
	return &Repository{repo: repo, gitDirPath: gitDirPath(path)}, nil
}

// gitDirPath resolves the GIT_DIR for a repository opened at path: path
// itself when it already looks like a bare repository or a .git directory,
// otherwise path/.git.
func gitDirPath(path string) string {
	if strings.HasSuffix(path, ".git") {
		return path
	}
	if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
		return filepath.Join(path, ".git")
	}
	return path
}

// PrivateDir returns the directory the gate reads its own private state
// (the collaborator allow-list) from: the repository's GIT_DIR.
func (r *Repository) PrivateDir() string {
	return r.gitDirPath
}

// CommitObject loads the commit with the given OID.
func (r *Repository) CommitObject(id Hash) (*object.Commit, error) {
	commit, err := r.repo.CommitObject(id.Plumbing())
	if err != nil {
		return nil, fmt.Errorf("unable to load commit %s: %w", id.String(), err)
	}
	return commit, nil
}

// TagObject loads the annotated tag object with the given OID.
func (r *Repository) TagObject(id Hash) (*object.Tag, error) {
	tag, err := r.repo.TagObject(id.Plumbing())
	if err != nil {
		return nil, fmt.Errorf("unable to load tag %s: %w", id.String(), err)
	}
	return tag, nil
}
