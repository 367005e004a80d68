package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every token that fails to parse, verify, or is expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// tokenIssuer is stamped into every access token and required on validation.
const tokenIssuer = "budgetlink"

// Claims carry the budget a token unlocks.
type Claims struct {
	Slug string `json:"slug"`
	jwt.RegisteredClaims
}

// JWTManager signs budget access tokens with HS256.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a manager. Tokens expire tokenDuration after issue.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate issues a token unlocking slug and reports when it expires.
func (m *JWTManager) Generate(slug string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.tokenDuration)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Slug: slug,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   slug,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature, issuer, and expiry. Errors wrap ErrInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Slug == "" || claims.Slug != claims.Subject {
		return nil, fmt.Errorf("%w: token does not name a budget", ErrInvalidToken)
	}
	return claims, nil
}
