package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds enforced before hashing.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
	DefaultBcryptCost = 12
)

// ErrPasswordLength is returned by HashPassword for passwords outside the
// accepted length bounds.
var ErrPasswordLength = fmt.Errorf("password must be %d-%d characters", MinPasswordLength, MaxPasswordLength)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	// Pepper is an optional server-side secret used as the HMAC key that
	// pre-hashes every password before bcrypt. The pre-hash also keeps long
	// passwords under bcrypt's 72-byte input limit.
	Pepper string
}

// NewPasswordConfig creates a new password configuration from environment variables.
// It reads BCRYPT_COST (default: 12) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cfg := &PasswordConfig{
		BcryptCost: DefaultBcryptCost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cfg.BcryptCost = cost
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLength || len(pw) > MaxPasswordLength {
		return "", ErrPasswordLength
	}

	hash, err := bcrypt.GenerateFromPassword(c.prepare(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	if pw == "" || storedHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), c.prepare(pw))
	return err == nil
}

// NeedsRehash reports whether storedHash was produced with a different cost
// than the configured one.
func (c *PasswordConfig) NeedsRehash(storedHash string) bool {
	cost, err := bcrypt.Cost([]byte(storedHash))
	if err != nil {
		return false
	}
	return cost != c.BcryptCost
}

func (c *PasswordConfig) prepare(pw string) []byte {
	mac := hmac.New(sha256.New, []byte(c.Pepper))
	mac.Write([]byte(pw))
	return []byte(base64.RawStdEncoding.EncodeToString(mac.Sum(nil)))
}
