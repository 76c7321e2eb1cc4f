package media

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "media.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Put("photos/c1/a.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff}))
	data, meta, err := s.Get("photos/c1/a.jpg")
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	require.Equal(t, "image/jpeg", meta.ContentType)
	require.Equal(t, 3, meta.Size)

	require.NoError(t, s.Delete("photos/c1/a.jpg"))
	_, _, err = s.Get("photos/c1/a.jpg")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete("never-existed"))
	require.Error(t, s.Put("", "image/png", nil))
}

func TestStoreReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "media.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("k", "audio/webm", []byte("voice")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	data, _, err := s.Get("k")
	require.NoError(t, err)
	require.Equal(t, "voice", string(data))
}

func parseSigned(t *testing.T, raw string) (key, exp, sig string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	key, err = url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/media/"))
	require.NoError(t, err)
	return key, u.Query().Get("exp"), u.Query().Get("sig")
}

func TestSignerRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewSigner([]byte("0123456789abcdef0123456789abcdef"), "")
	require.NoError(t, err)
	now := time.Unix(1_800_000_000, 0)
	s.now = func() time.Time { return now }

	raw, exp := s.Sign("photos/c1/a b.jpg", 10*time.Minute)
	require.Equal(t, now.Add(10*time.Minute).Unix(), exp.Unix())
	require.True(t, strings.HasPrefix(raw, "/media/photos%2Fc1%2Fa%20b.jpg?"))

	key, e, sig := parseSigned(t, raw)
	require.Equal(t, "photos/c1/a b.jpg", key)
	require.NoError(t, s.Verify(key, e, sig))

	require.ErrorIs(t, s.Verify("photos/c1/other.jpg", e, sig), ErrBadSignature)
	require.ErrorIs(t, s.Verify(key, "1900000000", sig), ErrBadSignature)
	require.ErrorIs(t, s.Verify(key, "soon", sig), ErrBadSignature)

	now = now.Add(11 * time.Minute)
	require.ErrorIs(t, s.Verify(key, e, sig), ErrExpired)
}

func TestSignerKeysDifferBySecret(t *testing.T) {
	t.Parallel()

	a, err := NewSigner([]byte("secret-number-one-0000"), "https://coach.example")
	require.NoError(t, err)
	b, err := NewSigner([]byte("secret-number-two-0000"), "https://coach.example")
	require.NoError(t, err)

	raw, _ := a.Sign("k", time.Hour)
	require.True(t, strings.HasPrefix(raw, "https://coach.example/media/k?"))
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.ErrorIs(t, b.Verify("k", u.Query().Get("exp"), u.Query().Get("sig")), ErrBadSignature)

	_, err = NewSigner([]byte("short"), "")
	require.Error(t, err)
}
