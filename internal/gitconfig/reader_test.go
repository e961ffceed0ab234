// SPDX-License-Identifier: Apache-2.0

package gitconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	options map[string]string
	err     error
}

func (f fakeSource) GetGitConfig() (map[string]string, error) {
	return f.options, f.err
}

func TestReaderBool(t *testing.T) {
	reader, err := NewReader(fakeSource{options: map[string]string{
		AllowUnsignedCommits: "true",
		AllowDeleteBranch:    "false",
		DenyCreateBranch:     "not-a-bool",
	}})
	require.NoError(t, err)

	assert.True(t, reader.Bool(AllowUnsignedCommits))
	assert.False(t, reader.Bool(AllowDeleteBranch))
	assert.False(t, reader.Bool(DenyCreateBranch), "unparseable value defaults to false")
	assert.False(t, reader.Bool(AllowCommitsOnMaster), "absent option defaults to false")
}

func TestReaderSourceError(t *testing.T) {
	reader, err := NewReader(fakeSource{err: errors.New("boom")})
	require.Error(t, err)
	assert.False(t, reader.Bool(AllowUnsignedCommits))
}
