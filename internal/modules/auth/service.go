// Package auth implements the email allow-list login gate and session tokens.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnauthorized marks an email that is not on the allow-list or a token
// that fails verification
var ErrUnauthorized = errors.New("unauthorized")

// Claims represents JWT claims for an authenticated session
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service checks emails against the allow-list and issues session tokens
type Service struct {
	allowed  map[string]struct{}
	secret   []byte
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewService creates a new auth service.
// Email matching is case-insensitive.
func NewService(authorizedEmails []string, secret string, tokenTTL time.Duration, log zerolog.Logger) *Service {
	allowed := make(map[string]struct{}, len(authorizedEmails))
	for _, email := range authorizedEmails {
		allowed[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	return &Service{
		allowed:  allowed,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Login verifies an email against the allow-list and returns a signed token
func (s *Service) Login(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.allowed[normalized]; !ok {
		s.log.Warn().Str("email", normalized).Msg("Unauthorized email")
		return "", ErrUnauthorized
	}

	now := time.Now()
	claims := &Claims{
		Email: normalized,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   normalized,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("email", normalized).Msg("Authentication successful")
	return signed, nil
}

// ValidateToken parses and verifies a session token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}

	return claims, nil
}
