// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"

	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
)

// ErrZeroInGraph guards against an unreachable-in-practice traversal state
// where the walker would yield the zero OID mid-graph.
var ErrZeroInGraph = errors.New("deletion of ref in the middle of the commit graph")

// WalkedCommit is a single commit object newly introduced by an update,
// with its object kind already resolved rather than re-discriminated by
// each caller.
type WalkedCommit struct {
	ID      gitinterface.Hash
	Kind    ObjectKind // CommitKind or MergeKind
	Parents []gitinterface.Hash
}

// Walk enumerates, in a single pass and each exactly once, the commit
// objects reachable from new but not previously admitted.
//
// If old is non-zero, every ancestor of old is treated as already admitted
// and hidden from the walk. If old is zero (a ref creation), every existing
// refs/heads/* tip except ref itself is hidden, so that a pre-push-style
// invocation where ref already points at new locally still enumerates the
// new commits instead of hiding the whole graph beneath them.
//
// If new does not resolve to a commit object (for example, it is an
// annotated tag object), Walk returns an empty, non-error result: there is
// nothing commit-shaped to walk, and the caller is expected to inspect new's
// actual type itself.
func Walk(repo *gitinterface.Repository, old, new gitinterface.Hash, ref string) ([]*WalkedCommit, error) {
	objType, err := repo.GetObjectType(new)
	if err != nil || objType != gitinterface.CommitObjectType {
		return nil, nil
	}

	hidden := map[gitinterface.Hash]bool{}
	if !old.IsZero() {
		markAncestors(repo, old, hidden)
	} else {
		tips, err := repo.BranchTips()
		if err != nil {
			return nil, err
		}
		for name, tip := range tips {
			if name == ref {
				continue
			}
			markAncestors(repo, tip, hidden)
		}
	}

	visited := map[gitinterface.Hash]bool{}
	queue := []gitinterface.Hash{new}
	var result []*WalkedCommit

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if id.IsZero() {
			return nil, ErrZeroInGraph
		}
		if visited[id] || hidden[id] {
			continue
		}
		visited[id] = true

		commit, err := repo.CommitObject(id)
		if err != nil {
			return nil, err
		}

		parents := make([]gitinterface.Hash, len(commit.ParentHashes))
		for i, p := range commit.ParentHashes {
			parents[i] = gitinterface.FromPlumbing(p)
		}

		kind := CommitKind
		if len(parents) >= 2 {
			kind = MergeKind
		}

		result = append(result, &WalkedCommit{ID: id, Kind: kind, Parents: parents})
		queue = append(queue, parents...)
	}

	return result, nil
}

// markAncestors marks start and every ancestor of start as hidden. Tips
// that do not resolve to commits (e.g. a malformed ref) are left as
// boundary-only; nothing beneath them is hidden, since there is nothing to
// recurse into.
func markAncestors(repo *gitinterface.Repository, start gitinterface.Hash, hidden map[gitinterface.Hash]bool) {
	if start.IsZero() {
		return
	}

	queue := []gitinterface.Hash{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if id.IsZero() || hidden[id] {
			continue
		}
		hidden[id] = true

		commit, err := repo.CommitObject(id)
		if err != nil {
			continue
		}
		for _, p := range commit.ParentHashes {
			queue = append(queue, gitinterface.FromPlumbing(p))
		}
	}
}
