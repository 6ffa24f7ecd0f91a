package encryption

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey = []byte("0123456789abcdef0123456789abcdef")
	testIV  = []byte("fedcba9876543210")
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := NewFieldCipher(testKey, testIV)
	require.NoError(t, err)
	return c
}

func TestNewFieldCipher_KeyAndIVLengths(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		iv   []byte
		ok   bool
	}{
		{name: "valid", key: testKey, iv: testIV, ok: true},
		{name: "short key", key: testKey[:16], iv: testIV, ok: false},
		{name: "long key", key: []byte("0123456789abcdef0123456789abcdefX"), iv: testIV, ok: false},
		{name: "short iv", key: testKey, iv: testIV[:8], ok: false},
		{name: "empty", key: nil, iv: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldCipher(tt.key, tt.iv)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, email := range []string{
		"a@b.io",
		"someone@example.com",
		"long.address+tag@subdomain.example.co.uk",
	} {
		encrypted, err := c.Encrypt(email)
		require.NoError(t, err)
		assert.NotEqual(t, email, encrypted)

		decrypted, err := c.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, email, decrypted)
	}
}

func TestFieldCipher_Deterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("same@example.com")
	require.NoError(t, err)
	second, err := c.Encrypt("same@example.com")
	require.NoError(t, err)

	// fixed IV: equal plaintexts must produce equal ciphertexts
	assert.Equal(t, first, second)

	other, err := c.Encrypt("other@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestFieldCipher_DecryptMalformed(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "empty", ciphertext: ""},
		{name: "absent placeholder", ciphertext: "undefined"},
		{name: "not hex", ciphertext: "zzzz"},
		{name: "odd hex length", ciphertext: "abc"},
		{name: "not a block multiple", ciphertext: hex.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.ciphertext)
			assert.ErrorIs(t, err, ErrDecryption)
		})
	}
}

func TestFieldCipher_DecryptCorrupted(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("victim@example.com")
	require.NoError(t, err)

	raw, err := hex.DecodeString(encrypted)
	require.NoError(t, err)

	// corrupt the last block so the padding check fails
	raw[len(raw)-1] ^= 0xff
	_, err = c.Decrypt(hex.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestFieldCipher_DecryptForeignCiphertext(t *testing.T) {
	c := newTestCipher(t)

	otherKey := []byte("abcdefabcdefabcdefabcdefabcdefab")
	other, err := NewFieldCipher(otherKey, testIV)
	require.NoError(t, err)

	encrypted, err := other.Encrypt("foreign@example.com")
	require.NoError(t, err)

	// wrong key yields either a padding failure or garbage; a padding
	// failure must be reported, never garbage returned as success
	if decrypted, err := c.Decrypt(encrypted); err == nil {
		assert.NotEqual(t, "foreign@example.com", decrypted)
	} else {
		assert.ErrorIs(t, err, ErrDecryption)
	}
}
