// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saab-simc-admin/workflow-tools/internal/collaborators"
)

type fakeBackend struct {
	matches map[string][]string
}

func (f fakeBackend) KeysByID(id string) []string {
	return f.matches[id]
}

func (f fakeBackend) VerifyDetached(_, _ []byte) (bool, string, error) {
	return false, "", nil
}

func TestResolveSignerAuthorized(t *testing.T) {
	backend := fakeBackend{matches: map[string][]string{
		"ABCD1234": {"1111111111111111111111111111111111111111"},
	}}
	allowList := collaborators.AllowList{"alice": "1111111111111111111111111111111111111111"}

	resolution, err := ResolveSigner(backend, allowList, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, "1111111111111111111111111111111111111111", resolution.Fingerprint)
	assert.Equal(t, "alice", resolution.Identity)
}

func TestResolveSignerNotAllowListed(t *testing.T) {
	backend := fakeBackend{matches: map[string][]string{
		"ABCD1234": {"2222222222222222222222222222222222222222"},
	}}
	allowList := collaborators.AllowList{"alice": "1111111111111111111111111111111111111111"}

	resolution, err := ResolveSigner(backend, allowList, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, "2222222222222222222222222222222222222222", resolution.Fingerprint)
	assert.Empty(t, resolution.Identity)
}

func TestResolveSignerNotFound(t *testing.T) {
	backend := fakeBackend{matches: map[string][]string{}}
	_, err := ResolveSigner(backend, collaborators.AllowList{}, "ABCD1234")
	assert.ErrorIs(t, err, ErrSignerNotFound)
}

func TestResolveSignerAmbiguous(t *testing.T) {
	backend := fakeBackend{matches: map[string][]string{
		"1234": {
			"1111111111111111111111111111111111111111",
			"2222222222222222222222222222222222222222",
		},
	}}
	_, err := ResolveSigner(backend, collaborators.AllowList{}, "1234")
	assert.ErrorIs(t, err, ErrSignerAmbiguous)
}
