package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"agendo/pkg/platform/sentinel"
)

// Store persists clients and appointments.
type Store interface {
	SaveClient(ctx context.Context, c *Client) error
	FindClient(ctx context.Context, id uuid.UUID) (*Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context) ([]*Client, error)

	SaveAppointment(ctx context.Context, a *Appointment) error
	FindAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context) ([]*Appointment, error)
}

// InMemoryStore is the default store for local runs and tests.
type InMemoryStore struct {
	mu           sync.RWMutex
	clients      map[uuid.UUID]*Client
	appointments map[uuid.UUID]*Appointment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		clients:      make(map[uuid.UUID]*Client),
		appointments: make(map[uuid.UUID]*Appointment),
	}
}

func (s *InMemoryStore) SaveClient(_ context.Context, c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *c
	s.clients[c.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindClient(_ context.Context, id uuid.UUID) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *c
	return &copied, nil
}

func (s *InMemoryStore) DeleteClient(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("client %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.clients, id)
	return nil
}

func (s *InMemoryStore) ListClients(_ context.Context) ([]*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		copied := *c
		clients = append(clients, &copied)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.Before(clients[j].CreatedAt)
	})
	return clients, nil
}

func (s *InMemoryStore) SaveAppointment(_ context.Context, a *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *a
	s.appointments[a.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindAppointment(_ context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (s *InMemoryStore) ListAppointments(_ context.Context) ([]*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appointments := make([]*Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		copied := *a
		appointments = append(appointments, &copied)
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt.Before(appointments[j].CreatedAt)
	})
	return appointments, nil
}
