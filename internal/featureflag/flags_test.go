package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEverythingEnabled(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "stories", "voice-notes", "legacy-recipes"} {
		require.True(t, Enabled(name), name)
	}
	require.Equal(t, map[string]bool{"stories": true, "chat": true}, Snapshot("stories", "chat"))
	require.Empty(t, Snapshot())
}
