package config

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v4"
)

// Config holds application level configuration loaded from environment
// variables. Key material is fixed for the process lifetime; components
// receive what they need at construction and never read the environment
// at call time.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	// Env switches error responses between production (status + generic
	// message) and development (adds the underlying cause).
	Env string `env:"APP_ENV" envDefault:"production"`

	MySQLDSN  string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`
	// AMQPURL enables audit event publishing when set.
	AMQPURL string `env:"AMQP_URL"`

	// TokenPrivateKey and TokenPublicKey are base64-encoded PEM blocks.
	TokenPrivateKey string        `env:"ACCESS_TOKEN_SECRET"`
	TokenPublicKey  string        `env:"ACCESS_TOKEN_PUBLIC"`
	TokenLifetime   time.Duration `env:"ACCESS_TOKEN_LIFE" envDefault:"1h"`

	// CipherKey (32 bytes) and CipherIV (16 bytes) drive the deterministic
	// email encryption. Shared across all records.
	CipherKey string `env:"SECURITY_KEY"`
	CipherIV  string `env:"INIT_VECTOR"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SigningKeys decodes and parses the RSA key pair used for bearer tokens.
func (c *Config) SigningKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privPEM, err := base64.StdEncoding.DecodeString(c.TokenPrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode private key: %w", err)
	}
	pubPEM, err := base64.StdEncoding.DecodeString(c.TokenPublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode public key: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key: %w", err)
	}
	return priv, pub, nil
}

// CipherMaterial returns the field cipher key and IV as raw bytes.
func (c *Config) CipherMaterial() (key, iv []byte) {
	return []byte(c.CipherKey), []byte(c.CipherIV)
}
