package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrExpiredToken is returned for a well-formed token past its expiry
var ErrExpiredToken = errors.New("token expired")

// Manager issues and validates service tokens for machine callers such as
// the scheduler that triggers ingestion
type Manager struct {
	secret string
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewManager creates a new JWT manager
func NewManager(secret string, expiry time.Duration, issuer string) *Manager {
	return &Manager{
		secret: secret,
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// GenerateServiceToken generates a token for service carrying scopes
func (m *Manager) GenerateServiceToken(service string, scopes ...string) (string, error) {
	if m.secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	now := m.now()
	claims := &Claims{
		Service: service,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   service,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateServiceToken validates and parses a service token
func (m *Manager) ValidateServiceToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetExpiry returns token expiry duration
func (m *Manager) GetExpiry() time.Duration {
	return m.expiry
}
