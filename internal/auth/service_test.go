package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAPIKey(t *testing.T) {
	plain := "messi10"

	hash, err := HashAPIKey(plain)
	require.NoError(t, err)
	require.NotEqual(t, plain, hash)

	require.True(t, CompareAPIKey(hash, plain))
	require.False(t, CompareAPIKey(hash, "ronaldo7"))
	require.False(t, CompareAPIKey("not-a-hash", plain))
}

func TestHashAPIKeyLimits(t *testing.T) {
	_, err := HashAPIKey("")
	require.ErrorContains(t, err, "cannot be empty")

	_, err = HashAPIKey(strings.Repeat("k", MAX_API_KEY_LENGTH+1))
	require.ErrorContains(t, err, "api key so long")
}
