package auth

import (
	"time"

	"github.com/mauv0809/gardenal/internal/player"
)

// TokenService issues and validates session tokens.
type TokenService interface {
	GenerateToken(playerID string, role player.Role) (string, error)
	ValidateToken(token string) (*Claims, error)
	TTL() time.Duration
}
