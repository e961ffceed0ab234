// SPDX-License-Identifier: Apache-2.0

// Package policy implements the update-admission state machine: ref
// classification, commit-graph walking, signer resolution, and the
// per-ref-class decision tables.
package policy

import (
	"strings"

	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
)

const (
	branchPrefix = "refs/heads/"
	remotePrefix = "refs/remotes/"
	tagPrefix    = "refs/tags/"

	// MasterRef is the distinguished primary integration branch.
	MasterRef = branchPrefix + "master"
)

// RefClass categorizes a ref name.
type RefClass uint8

const (
	Branch RefClass = iota
	RemoteTrackingBranch
	Tag
	OtherRef
)

func (c RefClass) String() string {
	switch c {
	case Branch:
		return "branch"
	case RemoteTrackingBranch:
		return "remote-tracking branch"
	case Tag:
		return "tag"
	default:
		return "ref"
	}
}

// ClassifyRef is a pure string discrimination of ref, no I/O.
func ClassifyRef(ref string) RefClass {
	switch {
	case strings.HasPrefix(ref, branchPrefix):
		return Branch
	case strings.HasPrefix(ref, remotePrefix):
		return RemoteTrackingBranch
	case strings.HasPrefix(ref, tagPrefix):
		return Tag
	default:
		return OtherRef
	}
}

// IsMaster reports whether ref is the distinguished master branch.
func IsMaster(ref string) bool {
	return ref == MasterRef
}

// UpdateKind categorizes an update triple by its (old, new) zero-checks.
type UpdateKind uint8

const (
	Create UpdateKind = iota
	Update
	Delete
)

func (k UpdateKind) String() string {
	switch k {
	case Create:
		return "create"
	case Delete:
		return "delete"
	default:
		return "update"
	}
}

// ClassifyUpdate derives the update kind from the old and new OIDs.
func ClassifyUpdate(old, new gitinterface.Hash) UpdateKind {
	switch {
	case old.IsZero() && !new.IsZero():
		return Create
	case !old.IsZero() && new.IsZero():
		return Delete
	default:
		return Update
	}
}
