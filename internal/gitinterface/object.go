// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

// ObjectType is the DVCS-reported type of an object, independent of any
// policy-level classification (commit vs. merge is a policy concern, see
// policy.ObjectKind).
type ObjectType uint8

const (
	UnknownObjectType ObjectType = iota
	BlobObjectType
	TreeObjectType
	CommitObjectType
	TagObjectType
)

func (t ObjectType) String() string {
	switch t {
	case BlobObjectType:
		return "blob"
	case TreeObjectType:
		return "tree"
	case CommitObjectType:
		return "commit"
	case TagObjectType:
		return "tag"
	default:
		return "unknown"
	}
}

var ErrObjectNotFound = errors.New("object not found in repository")

// GetObjectType reports the type of the object with the given OID.
func (r *Repository) GetObjectType(id Hash) (ObjectType, error) {
	if id.IsZero() {
		return UnknownObjectType, ErrObjectNotFound
	}

	encoded, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, id.Plumbing())
	if err != nil {
		return UnknownObjectType, ErrObjectNotFound
	}

	switch encoded.Type() {
	case plumbing.BlobObject:
		return BlobObjectType, nil
	case plumbing.TreeObject:
		return TreeObjectType, nil
	case plumbing.CommitObject:
		return CommitObjectType, nil
	case plumbing.TagObject:
		return TagObjectType, nil
	default:
		return UnknownObjectType, nil
	}
}
