package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const selectPlayer = `SELECT id, name, email, role, password_hash, created_at, updated_at FROM players`

// New creates a new player Store backed by db.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new player. An empty ID is replaced by a fresh UUID and an empty role
// defaults to RoleUser.
func (s *store) Create(ctx context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Email = NormalizeEmail(p.Email)
	if p.Email == "" {
		return fmt.Errorf("email is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = RoleUser
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE email = ?)", p.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrEmailInUse
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO players (id, name, email, role, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Email, string(p.Role), p.PasswordHash, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	log.Info("Created player", "playerID", p.ID, "email", p.Email, "role", p.Role)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getOne(ctx, selectPlayer+" WHERE id = ?", id)
}

func (s *store) GetByEmail(ctx context.Context, email string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getOne(ctx, selectPlayer+" WHERE email = ?", NormalizeEmail(email))
}

func (s *store) getOne(ctx context.Context, query string, arg any) (*Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetMany returns the players matching ids. Unknown ids are silently skipped.
func (s *store) GetMany(ctx context.Context, ids []string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return []Player{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := s.db.QueryContext(ctx, selectPlayer+" WHERE id IN ("+placeholders+")", toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", id)
		return false, err
	}
	return exists, nil
}

// List returns every player ordered by name.
func (s *store) List(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectPlayer+" ORDER BY name COLLATE NOCASE, email")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *store) UpdateName(ctx context.Context, id, name string) error {
	return s.update(ctx, id, "name = ?", strings.TrimSpace(name))
}

func (s *store) UpdateRole(ctx context.Context, id string, role Role) error {
	return s.update(ctx, id, "role = ?", string(role))
}

func (s *store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.update(ctx, id, "password_hash = ?", passwordHash)
}

func (s *store) update(ctx context.Context, id, set string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE players SET "+set+", updated_at = ? WHERE id = ?", value, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var role string
	var createdAt, updatedAt int64
	if err := scanner.Scan(&p.ID, &p.Name, &p.Email, &role, &p.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Role = Role(role)
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func toAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
