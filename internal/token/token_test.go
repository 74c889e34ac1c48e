package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	value, err := Generate(32)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(value)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		value, err := Generate(32)
		require.NoError(t, err)
		_, dup := seen[value]
		require.False(t, dup, "generated a duplicate token")
		seen[value] = struct{}{}
	}
}

func TestGenerateDefaultsLength(t *testing.T) {
	value, err := Generate(0)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(value)
	require.NoError(t, err)
	assert.Len(t, raw, DefaultLength)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest("abc"), Digest("abc"))
	assert.NotEqual(t, Digest("abc"), Digest("abd"))
	assert.Len(t, Digest("abc"), 64)

	// known sha256 vector
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Digest("abc"),
	)
}
