// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saab-simc-admin/workflow-tools/internal/gittest"
)

func TestGetObjectType(t *testing.T) {
	fixture := gittest.NewRepo(t)
	commitHash := fixture.Commit(t, "initial")
	tagHash := fixture.AnnotatedTag(t, "v1", commitHash, plumbing.CommitObject, "release")

	repo, err := LoadRepository(fixture.Dir)
	require.NoError(t, err)

	t.Run("commit", func(t *testing.T) {
		objType, err := repo.GetObjectType(FromPlumbing(commitHash))
		require.NoError(t, err)
		assert.Equal(t, CommitObjectType, objType)
	})

	t.Run("tag", func(t *testing.T) {
		objType, err := repo.GetObjectType(FromPlumbing(tagHash))
		require.NoError(t, err)
		assert.Equal(t, TagObjectType, objType)
	})

	t.Run("missing", func(t *testing.T) {
		missing, err := NewHash("abababababababababababababababababababab")
		require.NoError(t, err)
		_, err = repo.GetObjectType(missing)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("zero hash", func(t *testing.T) {
		_, err := repo.GetObjectType(ZeroHash)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}

func TestObjectTypeString(t *testing.T) {
	assert.Equal(t, "blob", BlobObjectType.String())
	assert.Equal(t, "tree", TreeObjectType.String())
	assert.Equal(t, "commit", CommitObjectType.String())
	assert.Equal(t, "tag", TagObjectType.String())
	assert.Equal(t, "unknown", UnknownObjectType.String())
}
