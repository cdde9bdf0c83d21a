package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

const adminRole = "admin"

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the admin console's session tokens.
type TokenManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewTokenManager(secretKey string, maxAge time.Duration) *TokenManager {
	return &TokenManager{secretKey: []byte(secretKey), maxAge: maxAge}
}

func (m *TokenManager) Generate(now time.Time) (string, error) {
	claims := adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnexpectedTokenGeneration, err)
	}
	return signedToken, nil
}

func (m *TokenManager) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return domain.ErrInvalidSigningAlg
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return domain.ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return domain.ErrCorruptedToken
		default:
			return fmt.Errorf("%w: %w", domain.ErrUnexpectedTokenVerify, err)
		}
	}

	if claims, ok := token.Claims.(*adminClaims); ok && token.Valid && claims.Role == adminRole {
		return nil
	}
	return domain.ErrCorruptedToken
}
