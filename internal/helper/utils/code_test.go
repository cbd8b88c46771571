package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestRandomToken(t *testing.T) {
	token, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64) // hex doubles the byte length

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := RandomToken(32)
		require.NoError(t, err)
		require.False(t, seen[tok], "token collision")
		seen[tok] = true
	}
}
