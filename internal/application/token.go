package application

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and verifies the access tokens the HTTP surface uses to
// re-identify an authenticated principal.
type TokenIssuer interface {
	Issue(principal string, now time.Time) (token string, expiresAt time.Time, err error)
	Verify(token string, now time.Time) (principal string, err error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Principal string `json:"principal"`
}

// JWTIssuer implements TokenIssuer with HS256 signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer constructs an issuer with the given signing secret and token
// lifetime. A non-positive ttl falls back to 12 hours.
func NewJWTIssuer(secret []byte, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTIssuer{secret: secret, ttl: ttl}
}

// Issue implements TokenIssuer.
func (i *JWTIssuer) Issue(principal string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Principal: principal,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify implements TokenIssuer.
func (i *JWTIssuer) Verify(tokenString string, now time.Time) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Principal == "" {
		return "", ErrInvalidToken
	}
	return claims.Principal, nil
}
