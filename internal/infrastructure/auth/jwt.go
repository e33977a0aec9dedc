// Package auth validates bearer tokens and maps caller roles to the
// capabilities they grant.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dyleth/fraudshield/internal/domain/errors"
)

// TokenClaims is the validated identity carried by a bearer token.
type TokenClaims struct {
	UserID   uuid.UUID
	Email    string
	Role     Role
	IssuedAt time.Time
	ExpireAt time.Time
}

// Service issues and validates JWT access tokens.
type Service interface {
	// GenerateToken creates a new signed access token
	GenerateToken(userID uuid.UUID, email string, role Role) (string, error)

	// ValidateToken validates and parses an access token
	ValidateToken(token string) (*TokenClaims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates an HMAC-signed token service.
func NewJWTService(secret string, expiry time.Duration) Service {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

type accessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *jwtService) GenerateToken(userID uuid.UUID, email string, role Role) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now().UTC()
	claims := accessClaims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*TokenClaims, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid token subject")
	}

	role := Role(claims.Role)
	if !role.IsValid() {
		return nil, errors.NewUnauthorizedError("unknown role in token")
	}

	tc := &TokenClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpireAt = claims.ExpiresAt.Time
	}

	return tc, nil
}
