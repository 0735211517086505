package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mauv0809/gardenal/internal/player"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Claims identifies the player a session token was issued to.
type Claims struct {
	PlayerID  string
	Role      player.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Claims) IsAdmin() bool {
	return c.Role == player.RoleAdmin
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// service signs and validates session tokens.
type service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}
