package ledger

import (
	"context"
	"sort"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store for tests and local tooling. It honours the same
// atomicity contract as the SQL store under a single mutex.
type MemoryStore struct {
	mu      sync.Mutex
	matches map[string]*Match

	// UpdateHook, when set, runs before each Update and may return an error to simulate
	// store failures such as ErrConflict.
	UpdateHook func(id string) error
	// UpdateCalls counts Update invocations, including failed ones.
	UpdateCalls int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{matches: make(map[string]*Match)}
}

func (s *MemoryStore) Create(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Match
	for _, m := range s.matches {
		if opts.Finished != nil && m.Finished != *opts.Finished {
			continue
		}
		if opts.PlayerID != "" {
			if _, ok := m.TeamOf(opts.PlayerID); !ok {
				continue
			}
		}
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) ListUnfinished(ctx context.Context) ([]*Match, error) {
	finished := false
	return s.List(ctx, ListOptions{Finished: &finished})
}

func (s *MemoryStore) ListFinished(ctx context.Context) ([]*Match, error) {
	finished := true
	return s.List(ctx, ListOptions{Finished: &finished})
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(m *Match) error) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.UpdateHook != nil {
		if err := s.UpdateHook(id); err != nil {
			return nil, err
		}
	}
	current, ok := s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	m := current.Clone()
	if err := fn(m); err != nil {
		return nil, err
	}
	m.Version = current.Version + 1
	s.matches[id] = m
	return m.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return ErrMatchNotFound
	}
	delete(s.matches, id)
	return nil
}
