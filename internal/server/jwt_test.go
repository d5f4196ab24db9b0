package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/oneclickresume/internal/config"
)

func testJWTService(now time.Time) *JWTService {
	s := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 24, Issuer: "oneclickresume"})
	s.now = func() time.Time { return now }
	return s
}

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := testJWTService(now)
	userID := uuid.New()

	token, err := s.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "oneclickresume", claims.Issuer)
	assert.Equal(t, now.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestJWTService_Rejects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := testJWTService(now)
	token, err := s.GenerateToken(uuid.New())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := testJWTService(now.Add(25 * time.Hour))
		_, err := later.ValidateToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 24, Issuer: "oneclickresume"})
		other.now = func() time.Time { return now }
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 24, Issuer: "someone-else"})
		other.now = func() time.Time { return now }
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := &Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "oneclickresume",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.ValidateToken(unsigned)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := s.ValidateToken("")
		assert.Error(t, err)
	})
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	s := testJWTService(time.Now())
	userID := uuid.New()
	token, err := s.GenerateToken(userID)
	require.NoError(t, err)

	got, err := s.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.GetUserID())
}
