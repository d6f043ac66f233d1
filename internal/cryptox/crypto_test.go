package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicAndSalted(t *testing.T) {
	k1 := DeriveKey([]byte("pass"), []byte("salt-1"))
	k2 := DeriveKey([]byte("pass"), []byte("salt-1"))
	k3 := DeriveKey([]byte("pass"), []byte("salt-2"))

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealer_RoundTrip(t *testing.T) {
	s := NewSealer([]byte("correct horse"))

	sealed, err := s.Seal([]byte("eyJhbGciOi.payload.sig"))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, []byte("payload")))

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.payload.sig", string(plain))
}

func TestSealer_FreshSaltPerSeal(t *testing.T) {
	s := NewSealer([]byte("p"))

	a, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealer_WrongPassphraseFails(t *testing.T) {
	sealed, err := NewSealer([]byte("right")).Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = NewSealer([]byte("wrong")).Open(sealed)
	require.Error(t, err)
}

func TestSealer_OpenMalformed(t *testing.T) {
	s := NewSealer([]byte("p"))

	_, err := s.Open([]byte("short"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = s.Open(make([]byte, saltSize+4))
	require.ErrorIs(t, err, ErrMalformed)
}
