package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"authsvc/internal/auth"
	"authsvc/internal/cache"
	apperrors "authsvc/internal/errors"
	"authsvc/internal/events"
	"authsvc/internal/model"
	"authsvc/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	UserID      string
}

// AuthService orchestrates registration, login and profile edits. It is
// stateless between requests; all shared state lives in the store.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	EditProfile(ctx context.Context, userID string, update model.ProfileUpdate) error
}

type authService struct {
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenIssuer
	cache     *cache.Client
	publisher events.Publisher
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	cacheClient *cache.Client,
	publisher events.Publisher,
) AuthService {
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		cache:     cacheClient,
		publisher: publisher,
	}
}

// Register validates the input, hashes the password exactly once and persists
// the record. Duplicate usernames surface as ErrConflict from the store.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	username := strings.TrimSpace(input.Username)
	if err := model.ValidateUsername(username); err != nil {
		return "", err
	}
	if err := model.ValidatePassword(input.Password); err != nil {
		return "", err
	}
	if err := model.ValidateName(input.FirstName); err != nil {
		return "", err
	}
	if err := model.ValidateName(input.LastName); err != nil {
		return "", err
	}
	if err := model.ValidateEmail(input.Email); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        model.NormalizeEmail(input.Email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.audit(ctx, events.TypeUserRegistered, user.ID.String())
	return user.ID.String(), nil
}

// Login authenticates by username and password and issues a bearer token.
// An unknown username and a wrong password return the identical error so the
// response cannot be used to enumerate accounts.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit(ctx, events.TypeUserLogin, user.ID.String())
	return &LoginResult{AccessToken: token, UserID: user.ID.String()}, nil
}

// Profile returns the user record for display, served from cache when warm.
func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	key := profileCacheKey(userID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, key, payload, profileCacheTTL)
	}
	return user, nil
}

// EditProfile applies a partial update for an already-authenticated user.
// When the update includes a password it is re-hashed before storage; all
// other fields are re-validated by the store.
func (s *authService) EditProfile(ctx context.Context, userID string, update model.ProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	patch := repository.FieldPatch{
		FirstName: update.FirstName,
		LastName:  update.LastName,
		Email:     update.Email,
	}
	if update.Password != nil {
		if err := model.ValidatePassword(*update.Password); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	if err := s.users.UpdateFields(ctx, userID, patch); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(userID))
	return nil
}

// audit publishes a best-effort event; failures are logged and swallowed.
func (s *authService) audit(ctx context.Context, eventType, userID string) {
	err := s.publisher.Publish(ctx, events.AuditEvent{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("audit publish %s: %v", eventType, err)
	}
}

func profileCacheKey(userID string) string {
	return "user:" + userID
}
