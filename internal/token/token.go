// Package token issues and verifies signed session tokens.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// DefaultTTL is the session validity window.
const DefaultTTL = 168 * time.Hour

// Role distinguishes the two account variants.
type Role string

const (
	// RoleOfficer marks tokens issued to sworn officers.
	RoleOfficer Role = "officer"
	// RoleCivilian marks tokens issued to civilian accounts.
	RoleCivilian Role = "civilian"
)

// Claims is the identity carried inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID        int64  `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	Rank          string `json:"rank,omitempty"`
	BadgeNumber   string `json:"badge_number,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// Service signs and verifies HS256 tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a token service. A non-positive ttl falls back to DefaultTTL.
func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// Issue signs claims and returns the token with its expiry.
func (s *Service) Issue(claims Claims) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("token: signing secret not configured")
	}
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(claims.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. Every rejection wraps shared.ErrForbidden.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrForbidden, err)
	}
	if !parsed.Valid {
		return nil, shared.ErrForbidden
	}
	if claims.Role != RoleOfficer && claims.Role != RoleCivilian {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrForbidden, claims.Role)
	}
	return claims, nil
}

// IsOfficer reports whether the claims belong to an officer account.
func (c *Claims) IsOfficer() bool {
	return c != nil && c.Role == RoleOfficer
}
