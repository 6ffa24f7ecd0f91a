package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"authsvc/internal/encryption"
	apperrors "authsvc/internal/errors"
	"authsvc/internal/model"
)

// FieldPatch is the column-level subset of a profile edit. The password
// arrives already hashed; plaintext length checks happen before hashing in
// the service layer.
type FieldPatch struct {
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Email        *string
}

// UserRepository defines persistence operations over user records. The email
// field crosses this boundary in plaintext only: implementations encrypt on
// write and decrypt on read.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateFields(ctx context.Context, id string, patch FieldPatch) error
}

type userRepository struct {
	db     *gorm.DB
	cipher encryption.Cipher
}

// NewUserRepository builds a GORM-backed repository with the given field cipher.
func NewUserRepository(db *gorm.DB, cipher encryption.Cipher) UserRepository {
	return &userRepository{db: db, cipher: cipher}
}

// Create validates and persists a new record. The duplicate-username race is
// decided by the unique index: when two concurrent creates collide, exactly
// one insert succeeds and the loser observes ErrConflict.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := model.ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := model.ValidateName(user.FirstName); err != nil {
		return err
	}
	if err := model.ValidateName(user.LastName); err != nil {
		return err
	}
	if err := model.ValidateEmail(user.Email); err != nil {
		return err
	}

	plaintext := model.NormalizeEmail(user.Email)
	encrypted, err := r.cipher.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("encrypt email: %w", err)
	}

	record := *user
	record.Email = encrypted
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = record.ID
	user.Email = plaintext
	user.CreatedAt = record.CreatedAt
	user.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return r.decrypted(&user)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return r.decrypted(&user)
}

// UpdateFields applies only the supplied subset of columns, re-validating
// each touched field. Username is immutable and has no update path.
func (r *userRepository) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	updates := map[string]interface{}{}

	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		if err := model.ValidateName(*patch.FirstName); err != nil {
			return err
		}
		updates["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if err := model.ValidateName(*patch.LastName); err != nil {
			return err
		}
		updates["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		if err := model.ValidateEmail(*patch.Email); err != nil {
			return err
		}
		encrypted, err := r.cipher.Encrypt(model.NormalizeEmail(*patch.Email))
		if err != nil {
			return fmt.Errorf("encrypt email: %w", err)
		}
		updates["email"] = encrypted
	}
	if len(updates) == 0 {
		return nil
	}

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("find user for update: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("update user fields: %w", err)
	}
	return nil
}

// decrypted returns the record with its email restored to plaintext.
func (r *userRepository) decrypted(user *model.User) (*model.User, error) {
	plaintext, err := r.cipher.Decrypt(user.Email)
	if err != nil {
		return nil, fmt.Errorf("decrypt email: %w", err)
	}
	user.Email = plaintext
	return user, nil
}
