package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost matches the fixed work factor of the original credential store.
	bcryptCost = 8
	// bcryptMaxLen is the hard input limit of the bcrypt algorithm. Accepted
	// passwords run up to 300 characters, so anything longer is truncated
	// before hashing; Verify applies the same truncation, keeping the hash
	// self-describing.
	bcryptMaxLen = 72
)

// PasswordHasher performs one-way password hashing and verification.
// The produced hash embeds its own salt and cost factor, so Verify needs
// no extra parameters.
type PasswordHasher struct{}

// NewPasswordHasher creates a bcrypt-backed hasher.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash derives a salted adaptive hash from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is
// not an error condition.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plaintext)) == nil
}

func bcryptInput(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > bcryptMaxLen {
		b = b[:bcryptMaxLen]
	}
	return b
}
