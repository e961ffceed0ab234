// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"

	"github.com/saab-simc-admin/workflow-tools/internal/collaborators"
	"github.com/saab-simc-admin/workflow-tools/internal/gitconfig"
	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
)

// Verdict is the outcome of one policy check: whether to accept, and the
// diagnostic line (if any) to emit for it.
type Verdict struct {
	Accept  bool
	Message string
}

func accept(message string) Verdict { return Verdict{Accept: true, Message: message} }
func reject(message string) Verdict { return Verdict{Accept: false, Message: message} }

// Engine applies the per-ref-class decision tables. It holds no state
// across invocations beyond what is injected at construction, so a fresh
// Engine per push is cheap and test fixtures never leak between cases.
type Engine struct {
	Repo      *gitinterface.Repository
	Keyring   Backend
	AllowList collaborators.AllowList
	Config    *gitconfig.Reader
}

// Deletion decides whether to admit a ref deletion. Deletions bypass every
// other check.
func (e *Engine) Deletion(ref string, class RefClass) Verdict {
	switch class {
	case Branch:
		if e.Config.Bool(gitconfig.AllowDeleteBranch) {
			return accept(fmt.Sprintf("Accepting deletion of branch %s", ref))
		}
		return reject(MsgDeleteBranchDenied)
	case RemoteTrackingBranch:
		if e.Config.Bool(gitconfig.AllowDeleteBranch) {
			return accept(fmt.Sprintf("Accepting deletion of remote-tracking ref %s", ref))
		}
		return reject(MsgDeleteRemoteDenied)
	case Tag:
		if e.Config.Bool(gitconfig.AllowDeleteTag) {
			return accept(fmt.Sprintf("Accepting deletion of tag %s", ref))
		}
		return reject(MsgDeleteTagDenied)
	default:
		return accept(fmt.Sprintf("Accepting deletion of %s", ref))
	}
}

// MasterRule enforces master's merge-only discipline. It only has an
// opinion when ref is the distinguished master branch; every other ref
// accepts with no message, deferring to the walk. It runs before the walk
// because it depends on the direct-parent relationship between new and
// old, not the traversed set.
func (e *Engine) MasterRule(ref string, old, new gitinterface.Hash) Verdict {
	if !IsMaster(ref) {
		return accept("")
	}
	if e.Config.Bool(gitconfig.AllowCommitsOnMaster) {
		return accept("")
	}
	if old.IsZero() {
		return accept(fmt.Sprintf("Accepting creation of %s", ref))
	}

	commit, err := e.Repo.CommitObject(new)
	if err != nil {
		return reject(err.Error())
	}

	if len(commit.ParentHashes) < 2 {
		return reject(MsgMasterMergesOnly)
	}
	for _, parent := range commit.ParentHashes {
		if gitinterface.FromPlumbing(parent).Equal(old) {
			return accept("")
		}
	}
	return reject(MsgMasterMergesOnly)
}

// CheckCommit decides whether to admit a single object yielded by the walk.
func (e *Engine) CheckCommit(kind UpdateKind, wc *WalkedCommit) Verdict {
	if kind == Create && wc.Kind == CommitKind && e.Config.Bool(gitconfig.DenyCreateBranch) {
		return reject(MsgCreateBranchDenied)
	}

	switch wc.Kind {
	case CommitKind, MergeKind:
		if e.Config.Bool(gitconfig.AllowUnsignedCommits) {
			return accept("")
		}
		return e.checkSignature(wc.ID, wc.Kind, fmt.Sprintf("%s %s", wc.Kind, wc.ID.String()))
	default:
		return reject(fmt.Sprintf("Unknown type of update %s", wc.ID.String()))
	}
}

// CheckZeroObjects handles the case where the walk yielded no new commits:
// new is classified directly and handled as a lightweight or annotated tag.
func (e *Engine) CheckZeroObjects(ref string, old, new gitinterface.Hash) Verdict {
	objType, err := e.Repo.GetObjectType(new)
	if err != nil {
		return reject(err.Error())
	}

	switch objType {
	case gitinterface.CommitObjectType:
		if e.Config.Bool(gitconfig.AllowUnsignedTags) && e.Config.Bool(gitconfig.AllowUnannotated) {
			return accept(fmt.Sprintf("Accepting un-annotated tag %s", ref))
		}
		return reject(fmt.Sprintf("The un-annotated tag %s is not allowed", ref))

	case gitinterface.TagObjectType:
		// A modification that is also unsigned rejects on the modification
		// check alone: no signature verification is attempted and no
		// success line is logged for a rejected modification. This matches
		// the engine's first-rejection-wins discipline elsewhere.
		if !old.IsZero() && !e.Config.Bool(gitconfig.AllowModifyTag) {
			return reject(fmt.Sprintf("%s: %s", MsgModifyTagDenied, ref))
		}
		if e.Config.Bool(gitconfig.AllowUnsignedTags) {
			return accept(fmt.Sprintf("Accepting tag %s", ref))
		}
		return e.checkSignature(new, TagKind, fmt.Sprintf("tag %s", ref))

	default:
		return reject(fmt.Sprintf("No new commits, but %s is a %s instead of a tag?", ref, objType))
	}
}

// checkSignature runs the common signature-then-allow-list check shared by
// commit/merge verification and annotated-tag verification. label
// identifies the object in diagnostic lines, e.g. "merge
// <oid>" or "tag refs/tags/v2".
func (e *Engine) checkSignature(id gitinterface.Hash, kind ObjectKind, label string) Verdict {
	result, err := VerifyObject(e.Repo, e.Keyring, id, kind)
	if err != nil {
		return reject(err.Error())
	}

	if !result.Valid {
		if kind == TagKind {
			return reject(fmt.Sprintf("Rejecting %s due to lack of a valid GPG signature", label))
		}
		return reject(fmt.Sprintf("Bad signature on %s", label))
	}

	resolution, err := ResolveSigner(e.Keyring, e.AllowList, result.KeyID)
	if err != nil {
		if kind == TagKind {
			return reject(fmt.Sprintf("Rejecting %s due to lack of a valid GPG signature", label))
		}
		return reject(resolverMessage(err, result.KeyID))
	}
	if resolution.Identity == "" {
		if kind == TagKind {
			return reject(fmt.Sprintf("Rejecting %s due to lack of a valid GPG signature", label))
		}
		return reject(fmt.Sprintf("%s signed by unauthorised key %s", label, resolution.Fingerprint))
	}

	return accept(fmt.Sprintf("Good signature on %s by %s (%s)", label, resolution.Identity, resolution.Fingerprint))
}

func resolverMessage(err error, id string) string {
	switch {
	case errors.Is(err, ErrSignerNotFound):
		return fmt.Sprintf("Key %s not in allowed list.", id)
	case errors.Is(err, ErrSignerAmbiguous):
		return fmt.Sprintf("Multiple keys matched short ID %s.", id)
	default:
		return err.Error()
	}
}
