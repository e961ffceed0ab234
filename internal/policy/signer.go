// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"

	"github.com/saab-simc-admin/workflow-tools/internal/collaborators"
)

// Backend is the crypto backend's surface as seen by the policy engine: a
// detached-signature verifier and a list-keys-by-id lookup. It is kept
// as an interface, rather than a concrete dependency on the keyring
// package, so the engine can be exercised in tests against a fake backend
// without a real OpenPGP keyring fixture.
type Backend interface {
	// VerifyDetached reports whether signature is a valid detached
	// signature over plaintext, and the reported signer key id when valid.
	VerifyDetached(signature, plaintext []byte) (valid bool, keyID string, err error)
	// KeysByID returns the full fingerprints of every key matching id.
	KeysByID(id string) []string
}

// ErrSignerNotFound is returned when the crypto backend's keyring has no
// key matching the reported id.
var ErrSignerNotFound = errors.New("key not found in keyring")

// ErrSignerAmbiguous is returned when the crypto backend's keyring has more
// than one key matching the reported id — short key ids are not
// collision-resistant, so ambiguity is treated as unauthorized rather than
// guessed at.
var ErrSignerAmbiguous = errors.New("multiple keys matched the reported id")

// SignerResolution is the result of resolving a reported key id to a single
// full fingerprint and, if that fingerprint is allow-listed, a collaborator
// identity.
type SignerResolution struct {
	// Fingerprint is the single full fingerprint the id resolved to.
	Fingerprint string
	// Identity is the allow-listed collaborator owning Fingerprint, or the
	// empty string if Fingerprint is not on the allow-list.
	Identity string
}

// ResolveSigner maps a key identifier reported by the crypto backend (a
// full fingerprint or an abbreviated id) to an authorized collaborator
// identity. It always compares against the backend-reported full
// fingerprint, never against the caller-supplied input id.
func ResolveSigner(kr Backend, allowList collaborators.AllowList, id string) (SignerResolution, error) {
	matches := kr.KeysByID(id)

	switch len(matches) {
	case 0:
		return SignerResolution{}, fmt.Errorf("%w: %s", ErrSignerNotFound, id)
	case 1:
		fingerprint := matches[0]
		identity, _ := allowList.Identity(fingerprint)
		return SignerResolution{Fingerprint: fingerprint, Identity: identity}, nil
	default:
		return SignerResolution{}, fmt.Errorf("%w: %s", ErrSignerAmbiguous, id)
	}
}
