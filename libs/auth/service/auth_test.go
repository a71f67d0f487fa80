package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key", time.Hour)

	assert.NotNil(t, tg)
	assert.Equal(t, []byte("test-secret-key"), tg.secret)
	assert.Equal(t, time.Hour, tg.AccessTokenExpiry())
}

func TestTokenGenerator_GenerateAccessToken(t *testing.T) {
	tg := NewTokenGenerator("b8a3c2267dc85f855dea9b46b452bf20", time.Hour)

	t.Run("round trip keeps user and role", func(t *testing.T) {
		token, err := tg.GenerateAccessToken(123, 2)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		userID, role, err := tg.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, 123, userID)
		assert.Equal(t, 2, role)
	})

	t.Run("tokens differ across issue times", func(t *testing.T) {
		fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		tg.now = func() time.Time { return fixed }
		first, err := tg.GenerateAccessToken(7, 1)
		require.NoError(t, err)

		tg.now = func() time.Time { return fixed.Add(time.Second) }
		second, err := tg.GenerateAccessToken(7, 1)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		tg.now = time.Now
	})
}

func TestTokenGenerator_ValidateAccessToken(t *testing.T) {
	secret := "validation-secret"
	tg := NewTokenGenerator(secret, time.Hour)

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	validClaims := func() AccessClaims {
		return AccessClaims{
			UserID: 5,
			Role:   1,
			Type:   "access",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-token" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims())
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.ExpiresAt = nil
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
		},
		{
			name: "wrong type",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.Type = "refresh"
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
		},
		{
			name: "missing user",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.UserID = 0
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
		},
		{
			name: "unexpected signing method",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, role, err := tg.ValidateAccessToken(tt.token(t))

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Zero(t, userID)
			assert.Zero(t, role)
		})
	}
}
