package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Token lifetime bounds accepted from JWT_EXPIRATION_HOURS.
const (
	DefaultJWTExpirationHours = 24
	MaxJWTExpirationHours     = 24 * 30
	jwtIssuer                 = "oneclickresume"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: DefaultJWTExpirationHours,
		Issuer:          jwtIssuer,
	}

	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		cfg.ExpirationHours = hours
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// TTL is the lifetime of an issued token.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 || c.ExpirationHours > MaxJWTExpirationHours {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be between 1 and %d, got: %d", MaxJWTExpirationHours, c.ExpirationHours)
	}
	if c.Issuer == "" {
		c.Issuer = jwtIssuer
	}
	return nil
}
