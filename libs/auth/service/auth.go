package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// ErrInvalidToken is returned for any token that fails parsing or validation
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims is the payload of an access token
type AccessClaims struct {
	UserID int    `json:"user_id"`
	Role   int    `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret            []byte
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            []byte(secret),
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// AccessTokenExpiry returns the configured lifetime of access tokens
func (tg *TokenGenerator) AccessTokenExpiry() time.Duration {
	return tg.accessTokenExpiry
}

// GenerateAccessToken creates an HS256 access token carrying the user ID and role
func (tg *TokenGenerator) GenerateAccessToken(userID int, role int) (string, error) {
	now := tg.now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.accessTokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, int, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return tg.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tg.now),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return 0, 0, ErrInvalidToken
	}

	if claims.Type != accessTokenType {
		return 0, 0, fmt.Errorf("%w: token is not an access token", ErrInvalidToken)
	}

	if claims.UserID <= 0 {
		return 0, 0, fmt.Errorf("%w: user_id not found in token", ErrInvalidToken)
	}

	return claims.UserID, claims.Role, nil
}
