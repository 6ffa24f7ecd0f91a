package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken covers every token rejection: malformed input, bad
// signature, wrong signing algorithm, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies RS256 bearer tokens carrying a user
// identity in the subject claim. Keys and lifetime are fixed at startup.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	lifetime   time.Duration
}

// NewTokenIssuer creates an issuer from an RSA key pair and a token lifetime.
func NewTokenIssuer(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{
		privateKey: privateKey,
		publicKey:  publicKey,
		lifetime:   lifetime,
	}
}

// Issue signs a token for the given user id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(t.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject user id.
// Tokens signed with any algorithm other than RS256 are rejected before
// signature verification.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
