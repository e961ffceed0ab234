// SPDX-License-Identifier: Apache-2.0

// Package keyring wraps the cryptographic backend: an OpenPGP keyring
// offering list-keys-by-id and verify-detached-signature operations.
// It never consults the collaborator allow-list; that is the Signer
// Resolver's job (internal/policy).
package keyring

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Keyring is a loaded set of trusted OpenPGP public keys.
type Keyring struct {
	entities openpgp.EntityList
}

// Load reads an armored OpenPGP keyring from path.
func Load(path string) (*Keyring, error) {
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open keyring %q: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	return LoadFromReader(file)
}

// LoadFromReader reads an armored OpenPGP keyring from r.
func LoadFromReader(r io.Reader) (*Keyring, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse keyring: %w", err)
	}
	return &Keyring{entities: entities}, nil
}

// KeysByID returns the full, canonical (uppercase) fingerprints of every
// public key in the keyring whose id matches the supplied identifier. The
// identifier may be a full 40-hex fingerprint or an abbreviated id (any
// non-empty trailing run of its hex characters; no minimum length is
// enforced); matching is a suffix comparison against each key's full
// fingerprint, case-insensitive.
func (k *Keyring) KeysByID(id string) []string {
	needle := strings.ToUpper(strings.TrimSpace(id))

	seen := map[string]bool{}
	var matches []string

	for _, entity := range k.entities {
		candidates := []*packet.PublicKey{entity.PrimaryKey}
		for _, subkey := range entity.Subkeys {
			if subkey.PublicKey != nil {
				candidates = append(candidates, subkey.PublicKey)
			}
		}

		for _, pk := range candidates {
			fingerprint := fingerprintOf(pk)
			if !matchesID(fingerprint, needle) {
				continue
			}
			if seen[fingerprint] {
				continue
			}
			seen[fingerprint] = true
			matches = append(matches, fingerprint)
		}
	}

	return matches
}

// VerifyDetached verifies a detached signature over plaintext against the
// keyring. When valid, keyID is the signature's issuer key identifier as
// reported by the signature packet itself — which may be an abbreviated id,
// not necessarily the full fingerprint of the key that validated it. Callers
// must resolve keyID to a full fingerprint (internal/policy.ResolveSigner)
// before trusting it against the allow-list; short ids are not
// collision-resistant across keys.
func (k *Keyring) VerifyDetached(signature, plaintext []byte) (valid bool, keyID string, err error) {
	if len(signature) == 0 || len(plaintext) == 0 {
		return false, "", nil
	}

	signer, verifyErr := openpgp.CheckArmoredDetachedSignature(k.entities, bytes.NewReader(plaintext), bytes.NewReader(signature), nil)
	if verifyErr != nil {
		return false, "", nil
	}

	id, ok := issuerKeyID(signature)
	if !ok {
		id = fingerprintOf(signer.PrimaryKey)
	}

	return true, id, nil
}

func fingerprintOf(pk *packet.PublicKey) string {
	return strings.ToUpper(hex.EncodeToString(pk.Fingerprint[:]))
}

func matchesID(fingerprint, id string) bool {
	if id == "" {
		return false
	}
	if len(id) > len(fingerprint) {
		return false
	}
	return strings.HasSuffix(fingerprint, id)
}

// issuerKeyID extracts the issuer key id subpacket from an armored detached
// OpenPGP signature, without regard to whether it validates against any
// known key.
func issuerKeyID(signature []byte) (string, bool) {
	var body io.Reader = bytes.NewReader(signature)
	if block, err := armor.Decode(bytes.NewReader(signature)); err == nil {
		body = block.Body
	}

	reader := packet.NewReader(body)
	pkt, err := reader.Next()
	if err != nil {
		return "", false
	}

	sig, ok := pkt.(*packet.Signature)
	if !ok || sig.IssuerKeyId == nil {
		return "", false
	}

	return fmt.Sprintf("%016X", *sig.IssuerKeyId), true
}
