package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plaintext := range []string{"123456", "", "a longer secret value"} {
		sealed, err := Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		got, err := Decrypt(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := Encrypt("123456")
	require.NoError(t, err)
	b, err := Encrypt("123456")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestDecryptRejectsTampered(t *testing.T) {
	sealed, err := Encrypt("123456")
	require.NoError(t, err)

	tampered := sealed[:len(sealed)-4] + "AAAA"
	_, err = Decrypt(tampered)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = Decrypt("not base64 at all!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = Decrypt("QUFB") // too short for a nonce
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}
