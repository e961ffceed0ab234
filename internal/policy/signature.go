// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"fmt"

	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
)

// VerificationResult is the two-phase result of signature verification,
// computed before any policy logic runs.
type VerificationResult struct {
	Valid bool
	// KeyID is the reported signer key id when Valid is true, as returned
	// by the crypto backend — callers resolve it via ResolveSigner, never
	// trusting it directly against the allow-list.
	KeyID string
}

// VerifyObject extracts the detached signature and canonical plaintext for
// the object at id — interpreting it as a commit/merge or as an annotated
// tag depending on kind — and verifies it against kr. It never consults the
// collaborator allow-list.
func VerifyObject(repo *gitinterface.Repository, kr Backend, id gitinterface.Hash, kind ObjectKind) (VerificationResult, error) {
	var (
		signature, plaintext []byte
		err                  error
	)

	switch kind {
	case CommitKind, MergeKind:
		signature, plaintext, err = repo.CommitSignature(id)
	case TagKind:
		signature, plaintext, err = repo.TagSignature(id)
	default:
		return VerificationResult{}, fmt.Errorf("unable to verify signature: unsupported object kind %s", kind)
	}
	if err != nil {
		return VerificationResult{}, err
	}

	if len(signature) == 0 || len(plaintext) == 0 {
		return VerificationResult{}, nil
	}

	valid, keyID, err := kr.VerifyDetached(signature, plaintext)
	if err != nil {
		return VerificationResult{}, err
	}
	if !valid {
		return VerificationResult{}, nil
	}

	return VerificationResult{Valid: true, KeyID: keyID}, nil
}
