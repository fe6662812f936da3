package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"), "auth")
	require.NoError(t, err)

	sealed := s.Seal([]byte("eyJhbGciOi.access"))
	assert.NotContains(t, string(sealed), "access")

	got, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.access", string(got))
}

func TestSealer_NonceIsFresh(t *testing.T) {
	s, err := NewSealer([]byte("secret-secret-secret"), "auth")
	require.NoError(t, err)

	a := s.Seal([]byte("same"))
	b := s.Seal([]byte("same"))
	assert.NotEqual(t, a, b)
}

func TestSealer_DifferentInfoCannotOpen(t *testing.T) {
	secret := []byte("secret-secret-secret")
	auth, err := NewSealer(secret, "auth")
	require.NoError(t, err)
	session, err := NewSealer(secret, "session")
	require.NoError(t, err)

	_, err = session.Open(auth.Seal([]byte("token")))
	require.ErrorIs(t, err, common.ErrCorruptedValue)
}

func TestSealer_TamperedAndShort(t *testing.T) {
	s, err := NewSealer([]byte("secret-secret-secret"), "auth")
	require.NoError(t, err)

	sealed := s.Seal([]byte("token"))
	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Open(sealed)
	require.ErrorIs(t, err, common.ErrCorruptedValue)

	_, err = s.Open([]byte{1, 2, 3})
	require.ErrorIs(t, err, common.ErrCorruptedValue)
	require.ErrorIs(t, err, ErrShortCiphertext)
}

func TestNewSealer_EmptySecret(t *testing.T) {
	_, err := NewSealer(nil, "auth")
	require.Error(t, err)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "secret.key")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Len(t, first, SecretSize)

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrCreateSecret_RejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	require.NoError(t, os.WriteFile(path, []byte("tiny"), 0o600))

	_, err := LoadOrCreateSecret(path)
	require.Error(t, err)
}
