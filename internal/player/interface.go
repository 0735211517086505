package player

import "context"

// Store defines the interface for interacting with the player directory.
type Store interface {
	Create(ctx context.Context, p *Player) error
	Get(ctx context.Context, id string) (*Player, error)
	GetByEmail(ctx context.Context, email string) (*Player, error)
	GetMany(ctx context.Context, ids []string) ([]Player, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Player, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateRole(ctx context.Context, id string, role Role) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
