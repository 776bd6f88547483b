// Package token issues and verifies the bearer tokens checked by the
// authorization middleware.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/contoso/university/internal/port/outbound"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken  = errors.New("invalid token")
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

// Config holds JWT configuration.
type Config struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// DefaultConfig returns default JWT configuration.
func DefaultConfig() *Config {
	return &Config{
		Issuer: "contoso-university",
		Expiry: 12 * time.Hour,
	}
}

// claims are the registered claims plus the caller's roles.
type claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// jwtManager implements outbound.TokenPort with HS256.
type jwtManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(cfg *Config) outbound.TokenPort {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &jwtManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
		now:    time.Now,
	}
}

// Issue signs a token for subject carrying roles.
func (m *jwtManager) Issue(subject string, roles []string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := m.now()

	c := claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its principal.
func (m *jwtManager) Parse(tokenString string) (*requestctx.Principal, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSecret)
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &requestctx.Principal{Subject: c.Subject, Roles: c.Roles}, nil
}

// Compile-time check
var _ outbound.TokenPort = (*jwtManager)(nil)
