package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.TokenLifetime)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ACCESS_TOKEN_LIFE", "15m")
	t.Setenv("SECURITY_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("INIT_VECTOR", "fedcba9876543210")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.TokenLifetime)

	key, iv := cfg.CipherMaterial()
	assert.Len(t, key, 32)
	assert.Len(t, iv, 16)
}

func TestSigningKeys(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(rsaKey),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&rsaKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	cfg := &Config{
		TokenPrivateKey: base64.StdEncoding.EncodeToString(privPEM),
		TokenPublicKey:  base64.StdEncoding.EncodeToString(pubPEM),
	}

	priv, pub, err := cfg.SigningKeys()
	require.NoError(t, err)
	assert.True(t, priv.PublicKey.Equal(pub))
}

func TestSigningKeysRejectsGarbage(t *testing.T) {
	cfg := &Config{TokenPrivateKey: "%%%not-base64%%%", TokenPublicKey: ""}
	_, _, err := cfg.SigningKeys()
	assert.Error(t, err)

	cfg = &Config{
		TokenPrivateKey: base64.StdEncoding.EncodeToString([]byte("not a pem block")),
		TokenPublicKey:  base64.StdEncoding.EncodeToString([]byte("not a pem block")),
	}
	_, _, err = cfg.SigningKeys()
	assert.Error(t, err)
}
