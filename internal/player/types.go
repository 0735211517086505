package player

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("player not found")
	ErrEmailInUse = errors.New("email already in use")
)

// Role controls access to administrative operations.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole returns the Role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Player is a league member.
type Player struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName falls back to the email when the player never set a name.
func (p Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return p.ID
}

func (p Player) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
