// SPDX-License-Identifier: Apache-2.0

package admission

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saab-simc-admin/workflow-tools/internal/collaborators"
	"github.com/saab-simc-admin/workflow-tools/internal/gitconfig"
	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
	"github.com/saab-simc-admin/workflow-tools/internal/gittest"
	"github.com/saab-simc-admin/workflow-tools/internal/keyring"
	"github.com/saab-simc-admin/workflow-tools/internal/policy"
)

type fakeConfigSource struct {
	options map[string]string
}

func (f fakeConfigSource) GetGitConfig() (map[string]string, error) {
	return f.options, nil
}

func newEngine(t *testing.T, repo *gitinterface.Repository, options map[string]string, kr policy.Backend, allowList collaborators.AllowList) *policy.Engine {
	t.Helper()
	cfg, err := gitconfig.NewReader(fakeConfigSource{options: options})
	require.NoError(t, err)
	return &policy.Engine{Repo: repo, Keyring: kr, AllowList: allowList, Config: cfg}
}

func updateLine(old, new gitinterface.Hash, ref string) string {
	return fmt.Sprintf("%s %s %s\n", old.String(), new.String(), ref)
}

// TestDriverSignedMergeToMaster exercises a signed merge into master by an
// authorized collaborator, whose merged-in feature commit is signed too:
// accepted, with a good-signature line for the merge.
func TestDriverSignedMergeToMaster(t *testing.T) {
	fixture := gittest.NewRepo(t)
	signer, armoredPublicKey := gittest.NewSigner(t)
	kr, err := keyring.LoadFromReader(bytes.NewReader(armoredPublicKey))
	require.NoError(t, err)
	fingerprint := gittest.Fingerprint(signer)

	root := fixture.Commit(t, "root")
	feature := fixture.SignedCommit(t, signer, "feature work", root)
	merge := fixture.SignedCommit(t, signer, "merge feature into master", root, feature)
	fixture.SetRef(t, "refs/heads/master", root)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, kr, collaborators.AllowList{"alice": fingerprint})
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.FromPlumbing(root), gitinterface.FromPlumbing(merge), "refs/heads/master")))

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Good signature on merge")
}

// TestDriverNonMergeOnMasterRejected exercises a direct, non-merge commit
// pushed straight to master: rejected, no objects beyond the rejecting one
// are inspected.
func TestDriverNonMergeOnMasterRejected(t *testing.T) {
	fixture := gittest.NewRepo(t)
	root := fixture.Commit(t, "root")
	direct := fixture.Commit(t, "direct to master", root)
	fixture.SetRef(t, "refs/heads/master", root)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.FromPlumbing(root), gitinterface.FromPlumbing(direct), "refs/heads/master")))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Master only accepts merges")
}

// TestDriverUnauthorizedSignerRejected exercises a commit signed by a key
// that verifies but is not on the allow list.
func TestDriverUnauthorizedSignerRejected(t *testing.T) {
	fixture := gittest.NewRepo(t)
	signer, armoredPublicKey := gittest.NewSigner(t)
	kr, err := keyring.LoadFromReader(bytes.NewReader(armoredPublicKey))
	require.NoError(t, err)

	root := fixture.Commit(t, "root")
	commit := fixture.SignedCommit(t, signer, "stranger's commit", root)
	fixture.SetRef(t, "refs/heads/feature", root)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, kr, collaborators.AllowList{})
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.FromPlumbing(root), gitinterface.FromPlumbing(commit), "refs/heads/feature")))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "unauthorised key")
}

// TestDriverBranchDeletionDenied exercises the default-deny on branch
// deletion.
func TestDriverBranchDeletionDenied(t *testing.T) {
	fixture := gittest.NewRepo(t)
	commit := fixture.Commit(t, "work")
	fixture.SetRef(t, "refs/heads/feature", commit)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.FromPlumbing(commit), gitinterface.ZeroHash, "refs/heads/feature")))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Deleting a branch is not allowed")
}

// TestDriverLightweightTagRejected exercises creation of an unannotated tag
// with no overriding config.
func TestDriverLightweightTagRejected(t *testing.T) {
	fixture := gittest.NewRepo(t)
	commit := fixture.Commit(t, "release point")
	fixture.SetRef(t, "refs/heads/master", commit)
	fixture.Tag(t, "v1", commit)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.ZeroHash, gitinterface.FromPlumbing(commit), "refs/tags/v1")))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "not allowed")
}

// TestDriverSignedAnnotatedTagAccepted exercises acceptance of a signed
// annotated tag by an authorized collaborator.
func TestDriverSignedAnnotatedTagAccepted(t *testing.T) {
	fixture := gittest.NewRepo(t)
	signer, armoredPublicKey := gittest.NewSigner(t)
	kr, err := keyring.LoadFromReader(bytes.NewReader(armoredPublicKey))
	require.NoError(t, err)
	fingerprint := gittest.Fingerprint(signer)

	commit := fixture.Commit(t, "release point")
	tag := fixture.SignedAnnotatedTag(t, "v1", commit, plumbing.CommitObject, "release v1", signer)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, kr, collaborators.AllowList{"alice": fingerprint})
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString(updateLine(gitinterface.ZeroHash, gitinterface.FromPlumbing(tag), "refs/tags/v1")))

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Good signature on tag")
}

// TestDriverRejectionShortCircuits verifies that a single rejection on the
// first of several update lines stops the driver before processing the
// second.
func TestDriverRejectionShortCircuits(t *testing.T) {
	fixture := gittest.NewRepo(t)
	root := fixture.Commit(t, "root")
	direct := fixture.Commit(t, "direct to master", root)
	fixture.SetRef(t, "refs/heads/master", root)
	fixture.SetRef(t, "refs/heads/feature", root)

	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	input := updateLine(gitinterface.FromPlumbing(root), gitinterface.FromPlumbing(direct), "refs/heads/master") +
		updateLine(gitinterface.FromPlumbing(root), gitinterface.ZeroHash, "refs/heads/feature")

	code := driver.Run(bytes.NewBufferString(input))

	assert.Equal(t, 1, code)
	assert.NotContains(t, out.String(), "Deleting a branch")
}

// TestDriverMalformedInputIsFatal exercises the malformed-input path.
func TestDriverMalformedInputIsFatal(t *testing.T) {
	fixture := gittest.NewRepo(t)
	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString("not-a-valid-line\n"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "malformed update line")
}

// TestDriverBlankLineIsFatal verifies that a blank line on the input stream
// is treated like any other malformed line rather than silently skipped.
func TestDriverBlankLineIsFatal(t *testing.T) {
	fixture := gittest.NewRepo(t)
	repo, err := gitinterface.LoadRepository(fixture.Dir)
	require.NoError(t, err)

	engine := newEngine(t, repo, nil, nil, nil)
	var out bytes.Buffer
	driver := NewDriver(engine, NewReporter(&out))

	code := driver.Run(bytes.NewBufferString("\n"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "malformed update line")
}
