// Package auth issues and validates the bearer credentials the authorization
// engine trusts.
// File: auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-field-ops/models"
)

// TokenKind separates short-lived access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims are the signed statements carried by both token kinds. The engine
// reads role and identity from here, never from the resource under request.
type Claims struct {
	PersonID uint        `json:"person_id"`
	Role     models.Role `json:"role"`
	Email    string      `json:"email,omitempty"`
	Kind     TokenKind   `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService creates and validates HS256-signed tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// ErrInvalidToken covers expired, malformed, or tampered tokens.
var ErrInvalidToken = errors.New("invalid token")

// NewTokenService builds a TokenService; the secret must be non-empty.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token service: secret must not be empty")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssuePair signs a fresh access+refresh token pair for an authenticated
// account. Each token carries its own jti so that logout can revoke the
// access token without touching the refresh token.
func (s *TokenService) IssuePair(person *models.Employee) (access, refresh string, err error) {
	access, err = s.issue(person, KindAccess, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.issue(person, KindRefresh, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess signs a fresh access token only, used by the refresh endpoint.
func (s *TokenService) IssueAccess(person *models.Employee) (string, error) {
	return s.issue(person, KindAccess, s.accessTTL)
}

func (s *TokenService) issue(person *models.Employee, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	email := ""
	if person.Email != nil {
		email = *person.Email
	}
	claims := &Claims{
		PersonID: person.ID,
		Role:     person.Role,
		Email:    email,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", person.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, enforcing the expected kind.
// Rejecting unexpected signing algorithms prevents algorithm confusion
// attacks.
func (s *TokenService) Validate(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
