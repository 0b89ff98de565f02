package principal

import (
	"context"
	"fmt"
	"sync"

	"agendo/pkg/platform/sentinel"
)

// InMemoryStore keeps principals in a map. Used by tests and local runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	principals map[string]*Principal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{principals: make(map[string]*Principal)}
}

func (s *InMemoryStore) FindByIdentifier(_ context.Context, identifier string) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.principals[identifier]
	if !ok {
		return nil, fmt.Errorf("principal %q: %w", identifier, sentinel.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *InMemoryStore) Create(_ context.Context, p *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.principals[p.Identifier]; exists {
		return fmt.Errorf("principal %q: %w", p.Identifier, sentinel.ErrConflict)
	}
	copied := *p
	s.principals[p.Identifier] = &copied
	return nil
}
