package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Verify("correct horse battery staple", hash))
	assert.False(t, hasher.Verify("correct horse battery stapl", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestPasswordHasher_HashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("password-1")
	assert.NoError(t, err)
	second, err := hasher.Hash("password-1")
	assert.NoError(t, err)

	// per-hash salt means equal passwords never produce equal hashes
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("password-1", first))
	assert.True(t, hasher.Verify("password-1", second))
}

func TestPasswordHasher_EmbedsCostFactor(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("some long password")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$08$"), "hash should embed cost 8, got %q", hash)
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	hasher := NewPasswordHasher()

	// the full accepted range must hash, including lengths beyond the
	// 72-byte bcrypt input limit
	for _, n := range []int{72, 73, 100, 300} {
		password := strings.Repeat("p", n-1) + "q"
		hash, err := hasher.Hash(password)
		assert.NoError(t, err, "length %d", n)
		assert.True(t, hasher.Verify(password, hash), "length %d", n)
	}

	hash, err := hasher.Hash(strings.Repeat("x", 300))
	assert.NoError(t, err)
	assert.False(t, hasher.Verify(strings.Repeat("y", 300), hash))
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher()

	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("anything", ""))
}
