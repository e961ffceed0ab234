// SPDX-License-Identifier: Apache-2.0

// Package gittest builds small on-disk repositories and OpenPGP keys for
// exercising internal/gitinterface, internal/policy, and internal/admission
// without shelling out to the git binary or fetching real keyring fixtures.
// It is a test-support package, imported only from _test.go files.
package gittest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a real, on-disk go-git repository under a t.TempDir(), built by
// writing objects directly through the go-git storer rather than through
// worktree operations.
type Repo struct {
	Dir string
	Go  *git.Repository
}

// NewRepo initializes a fresh non-bare repository.
func NewRepo(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("unable to init test repository: %s", err)
	}

	return &Repo{Dir: dir, Go: repo}
}

// EmptyTree returns the hash of the canonical empty tree, writing it to the
// repository's object store if necessary.
func (r *Repo) EmptyTree(t testing.TB) plumbing.Hash {
	t.Helper()

	tree := &object.Tree{}
	obj := r.Go.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		t.Fatalf("unable to encode empty tree: %s", err)
	}
	hash, err := r.Go.Storer.SetEncodedObject(obj)
	if err != nil {
		t.Fatalf("unable to store empty tree: %s", err)
	}
	return hash
}

var testSignature = object.Signature{
	Name:  "Test Committer",
	Email: "test@example.com",
	When:  time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
}

// Commit writes an unsigned commit with the given parents, all pointing at
// the empty tree, and returns its hash. It does not update any reference.
func (r *Repo) Commit(t testing.TB, message string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	return r.commit(t, message, nil, parents...)
}

// SignedCommit writes a commit detached-signed with signer.
func (r *Repo) SignedCommit(t testing.TB, signer *openpgp.Entity, message string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	return r.commit(t, message, signer, parents...)
}

func (r *Repo) commit(t testing.TB, message string, signer *openpgp.Entity, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()

	commit := &object.Commit{
		Author:       testSignature,
		Committer:    testSignature,
		TreeHash:     r.EmptyTree(t),
		ParentHashes: parents,
		Message:      message,
	}

	if signer != nil {
		plaintext, err := encode(commit)
		if err != nil {
			t.Fatalf("unable to canonicalize commit: %s", err)
		}
		commit.PGPSignature = sign(t, signer, plaintext)
	}

	return r.store(t, commit)
}

// Tag writes a lightweight tag reference pointing directly at target.
func (r *Repo) Tag(t testing.TB, name string, target plumbing.Hash) {
	t.Helper()
	r.SetRef(t, "refs/tags/"+name, target)
}

// AnnotatedTag writes an annotated tag object pointing at target and
// returns its hash. It does not update any reference.
func (r *Repo) AnnotatedTag(t testing.TB, name string, target plumbing.Hash, targetType plumbing.ObjectType, message string) plumbing.Hash {
	t.Helper()
	return r.annotatedTag(t, name, target, targetType, message, nil)
}

// SignedAnnotatedTag writes an annotated tag object detached-signed with
// signer.
func (r *Repo) SignedAnnotatedTag(t testing.TB, name string, target plumbing.Hash, targetType plumbing.ObjectType, message string, signer *openpgp.Entity) plumbing.Hash {
	t.Helper()
	return r.annotatedTag(t, name, target, targetType, message, signer)
}

func (r *Repo) annotatedTag(t testing.TB, name string, target plumbing.Hash, targetType plumbing.ObjectType, message string, signer *openpgp.Entity) plumbing.Hash {
	t.Helper()

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	tag := &object.Tag{
		Name:       name,
		Tagger:     testSignature,
		Message:    message,
		TargetType: targetType,
		Target:     target,
	}

	if signer != nil {
		plaintext, err := encode(tag)
		if err != nil {
			t.Fatalf("unable to canonicalize tag: %s", err)
		}
		tag.PGPSignature = sign(t, signer, plaintext)
	}

	return r.store(t, tag)
}

type encodable interface {
	Encode(o plumbing.EncodedObject) error
}

func encode(obj encodable) ([]byte, error) {
	memObj := &plumbing.MemoryObject{}
	if err := obj.Encode(memObj); err != nil {
		return nil, err
	}
	reader, err := memObj.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Repo) store(t testing.TB, obj encodable) plumbing.Hash {
	t.Helper()

	encoded := r.Go.Storer.NewEncodedObject()
	if err := obj.Encode(encoded); err != nil {
		t.Fatalf("unable to encode object: %s", err)
	}
	hash, err := r.Go.Storer.SetEncodedObject(encoded)
	if err != nil {
		t.Fatalf("unable to store object: %s", err)
	}
	return hash
}

// SetRef sets name to point directly at hash.
func (r *Repo) SetRef(t testing.TB, name string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), hash)
	if err := r.Go.Storer.SetReference(ref); err != nil {
		t.Fatalf("unable to set reference %s: %s", name, err)
	}
}

// NewSigner generates a fresh OpenPGP entity for signing test objects, and
// returns its armored public key ready for keyring.LoadFromReader.
func NewSigner(t testing.TB) (entity *openpgp.Entity, armoredPublicKey []byte) {
	t.Helper()

	entity, err := openpgp.NewEntity("Test Collaborator", "", "collaborator@example.com", nil)
	if err != nil {
		t.Fatalf("unable to generate test key: %s", err)
	}

	buf := new(bytes.Buffer)
	w, err := armor.Encode(buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("unable to open armor encoder: %s", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("unable to serialize public key: %s", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unable to close armor encoder: %s", err)
	}

	return entity, buf.Bytes()
}

// Fingerprint returns the canonical uppercase hex fingerprint of entity.
func Fingerprint(entity *openpgp.Entity) string {
	return fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint)
}

func sign(t testing.TB, signer *openpgp.Entity, plaintext []byte) string {
	t.Helper()

	sig := new(strings.Builder)
	if err := openpgp.ArmoredDetachSign(sig, signer, bytes.NewReader(plaintext), nil); err != nil {
		t.Fatalf("unable to sign test object: %s", err)
	}
	return sig.String()
}
