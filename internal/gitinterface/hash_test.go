// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHash(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h, err := NewHash("1111111111111111111111111111111111111111")
		require.NoError(t, err)
		assert.Equal(t, "1111111111111111111111111111111111111111", h.String())
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := NewHash("1111")
		assert.ErrorIs(t, err, ErrInvalidHashLength)
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := NewHash("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")
		assert.ErrorIs(t, err, ErrInvalidHashEncoding)
	})
}

func TestHashIsZero(t *testing.T) {
	assert.True(t, ZeroHash.IsZero())

	h, err := NewHash("1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.False(t, h.IsZero())
}

func TestHashEqual(t *testing.T) {
	a, err := NewHash("1111111111111111111111111111111111111111")
	require.NoError(t, err)
	b, err := NewHash("1111111111111111111111111111111111111111")
	require.NoError(t, err)
	c, err := NewHash("2222222222222222222222222222222222222222")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestHashPlumbingRoundTrip(t *testing.T) {
	h, err := NewHash("3333333333333333333333333333333333333333")
	require.NoError(t, err)

	assert.Equal(t, h, FromPlumbing(h.Plumbing()))
}

func TestHashAsMapKey(t *testing.T) {
	a, err := NewHash("1111111111111111111111111111111111111111")
	require.NoError(t, err)
	b, err := NewHash("1111111111111111111111111111111111111111")
	require.NoError(t, err)

	seen := map[Hash]bool{a: true}
	assert.True(t, seen[b])
}
