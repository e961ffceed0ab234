// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoSignature describes an object that carries no detached signature.
// CommitSignature and TagSignature do not return it: they report an unsigned
// object with empty slices and a nil error.
var ErrNoSignature = errors.New("object has no signature")

// CommitSignature returns the detached signature and the canonical
// plaintext (the commit encoded with its signature field cleared) for the
// commit with the given OID. Either slice is empty if the commit was never
// signed.
func (r *Repository) CommitSignature(id Hash) (signature, plaintext []byte, err error) {
	commit, err := r.CommitObject(id)
	if err != nil {
		return nil, nil, err
	}

	if commit.PGPSignature == "" {
		return nil, nil, nil
	}

	unsigned := *commit
	unsigned.PGPSignature = ""

	plaintext, err = encodeObject(&unsigned)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to canonicalize commit %s: %w", id.String(), err)
	}

	return []byte(commit.PGPSignature), plaintext, nil
}

// TagSignature returns the detached signature and the canonical plaintext
// for the annotated tag with the given OID.
func (r *Repository) TagSignature(id Hash) (signature, plaintext []byte, err error) {
	tag, err := r.TagObject(id)
	if err != nil {
		return nil, nil, err
	}

	if tag.PGPSignature == "" {
		return nil, nil, nil
	}

	unsigned := *tag
	unsigned.PGPSignature = ""

	plaintext, err = encodeObject(&unsigned)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to canonicalize tag %s: %w", id.String(), err)
	}

	return []byte(tag.PGPSignature), plaintext, nil
}

type encodable interface {
	Encode(o plumbing.EncodedObject) error
}

func encodeObject(obj encodable) ([]byte, error) {
	memObj := &plumbing.MemoryObject{}
	if err := obj.Encode(memObj); err != nil {
		return nil, err
	}

	reader, err := memObj.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

var _ encodable = (*object.Commit)(nil)
var _ encodable = (*object.Tag)(nil)
