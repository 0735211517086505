package player

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory implementation of the Store interface for testing.
// It is safe for concurrent use. Func fields override the default behaviour.
type MockStore struct {
	mu      sync.Mutex
	players map[string]Player

	GetFunc     func(ctx context.Context, id string) (*Player, error)
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
	GetManyFunc func(ctx context.Context, ids []string) ([]Player, error)

	// Call records
	GetManyCalls [][]string
}

// NewMock creates a new mock instance seeded with players.
func NewMock(players ...Player) *MockStore {
	m := &MockStore{players: make(map[string]Player)}
	for _, p := range players {
		if p.Role == "" {
			p.Role = RoleUser
		}
		m.players[p.ID] = p
	}
	return m
}

func (m *MockStore) Create(ctx context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Email = NormalizeEmail(p.Email)
	for _, existing := range m.players {
		if existing.Email == p.Email {
			return ErrEmailInUse
		}
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	m.players[p.ID] = *p
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Player, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MockStore) GetByEmail(ctx context.Context, email string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = NormalizeEmail(email)
	for _, p := range m.players {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetMany(ctx context.Context, ids []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetManyCalls = append(m.GetManyCalls, ids)
	if m.GetManyFunc != nil {
		return m.GetManyFunc(ctx, ids)
	}
	players := []Player{}
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (m *MockStore) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.players[id]
	return ok, nil
}

func (m *MockStore) List(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

func (m *MockStore) UpdateName(ctx context.Context, id, name string) error {
	return m.mutate(id, func(p *Player) { p.Name = name })
}

func (m *MockStore) UpdateRole(ctx context.Context, id string, role Role) error {
	return m.mutate(id, func(p *Player) { p.Role = role })
}

func (m *MockStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.mutate(id, func(p *Player) { p.PasswordHash = passwordHash })
}

func (m *MockStore) mutate(id string, fn func(p *Player)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return ErrNotFound
	}
	fn(&p)
	m.players[id] = p
	return nil
}
