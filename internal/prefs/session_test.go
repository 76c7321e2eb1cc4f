package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	s, err := LoadSession()
	require.NoError(t, err)
	require.Zero(t, s)

	require.NoError(t, SaveSession(Session{ClientID: "c1", CoachID: "k1"}))
	s, err = LoadSession()
	require.NoError(t, err)
	require.Equal(t, Session{ClientID: "c1", CoachID: "k1"}, s)

	_, err = os.Stat(filepath.Join(dir, "fitcoach", "session.json.tmp"))
	require.True(t, os.IsNotExist(err))
}

func TestLoadSessionRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fitcoach"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fitcoach", "session.json"), []byte("{"), 0o600))

	_, err := LoadSession()
	require.Error(t, err)
}
