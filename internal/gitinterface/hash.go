// SPDX-License-Identifier: Apache-2.0

// Package gitinterface wraps go-git to expose exactly the operations the
// push gate needs: OID parsing, object lookup, reference enumeration, and
// signature-material extraction. It is the sole boundary between the policy
// engine and the DVCS object store.
package gitinterface

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrInvalidHashEncoding = errors.New("oid is not hex encoded")
	ErrInvalidHashLength   = errors.New("oid is not 40 hex characters")
)

// Hash is a 40-hex-character Git object identifier.
type Hash [sha1.Size]byte

// ZeroHash is the DVCS sentinel denoting absence of an object.
var ZeroHash Hash

// NewHash parses a 40-hex-character string into a Hash.
func NewHash(s string) (Hash, error) {
	var h Hash
	if len(s) != sha1.Size*2 {
		return h, ErrInvalidHashLength
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, ErrInvalidHashEncoding
	}
	copy(h[:], decoded)
	return h, nil
}

// String returns the hex-encoded OID.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zeros sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Equal reports whether h and other denote the same OID.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// Plumbing returns the go-git plumbing.Hash equivalent.
func (h Hash) Plumbing() plumbing.Hash {
	return plumbing.Hash(h)
}

// FromPlumbing converts a go-git plumbing.Hash into a Hash.
func FromPlumbing(h plumbing.Hash) Hash {
	return Hash(h)
}
