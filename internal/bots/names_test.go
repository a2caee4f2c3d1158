package bots

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNames_Unique(t *testing.T) {
	names, err := GenerateNames(5, nil)
	require.NoError(t, err)
	require.Len(t, names, 5)

	seen := make(map[string]struct{})
	for _, name := range names {
		require.NotEmpty(t, name)
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}

func TestGenerateNames_AvoidsUsedNames(t *testing.T) {
	names, err := GenerateNames(3, botNames[:len(botNames)-3])
	require.NoError(t, err)
	require.Len(t, names, 3)
	used := make(map[string]struct{})
	for _, name := range botNames[:len(botNames)-3] {
		used[name] = struct{}{}
	}
	for _, name := range names {
		_, taken := used[name]
		require.False(t, taken, "reused name %s", name)
	}
}

func TestGenerateNames_FallbackWhenListExhausted(t *testing.T) {
	names, err := GenerateNames(len(botNames)+4, nil)
	require.NoError(t, err)
	require.Len(t, names, len(botNames)+4)

	seen := make(map[string]struct{})
	for _, name := range names {
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}
