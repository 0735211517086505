package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mauv0809/gardenal/internal/player"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// New creates a TokenService signing HS256 tokens with secret.
func New(secret string, ttl time.Duration) TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *service) TTL() time.Duration {
	return s.ttl
}

// GenerateToken creates a signed session token for playerID.
func (s *service) GenerateToken(playerID string, role player.Role) (string, error) {
	now := s.now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses token and returns its claims.
func (s *service) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || sc.Subject == "" {
		return nil, ErrInvalidToken
	}
	role, ok := player.ParseRole(sc.Role)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{PlayerID: sc.Subject, Role: role}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time
	}
	return claims, nil
}
