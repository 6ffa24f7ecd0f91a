package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "authsvc/internal/errors"
)

// Field length bounds enforced at the store boundary.
const (
	UsernameMinLen = 4
	UsernameMaxLen = 20
	PasswordMinLen = 10
	PasswordMaxLen = 300
)

var validate = validator.New()

// User represents a registered account. Email is plaintext in memory; the
// repository encrypts it before it reaches storage and decrypts it on every
// read, so no other component ever sees ciphertext.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:255;not null"`
	LastName     string    `json:"last_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:512;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidateUsername checks the trimmed username length in characters, not
// bytes. Username is immutable after creation, so this only runs on
// registration.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n < UsernameMinLen || n > UsernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", apperrors.ErrValidation, UsernameMinLen, UsernameMaxLen)
	}
	return nil
}

// ValidatePassword checks plaintext password length in characters. Must run
// before hashing; the hash has its own fixed length.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", apperrors.ErrValidation, PasswordMinLen, PasswordMaxLen)
	}
	return nil
}

// ValidateName checks that a first or last name is non-empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
	}
	return nil
}

// ValidateEmail checks email format. Must pass before encryption so invalid
// addresses fail ahead of any persistence attempt.
func ValidateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	return nil
}

// NormalizeEmail applies the canonical form stored for every address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries the subset of fields touched by a profile edit.
// Nil pointers mean the field is left alone. Username has no update path.
type ProfileUpdate struct {
	Password  *string
	FirstName *string
	LastName  *string
	Email     *string
}

// Empty reports whether the update touches no fields at all.
func (p ProfileUpdate) Empty() bool {
	return p.Password == nil && p.FirstName == nil && p.LastName == nil && p.Email == nil
}
