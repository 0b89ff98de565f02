// Package memory provides the in-memory event store used by unit tests and
// local development runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agendo/internal/audit"
)

type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

// Clear drops all events. Test helper.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.events)), nil
}

func (s *Store) CountByTypes(_ context.Context, types []audit.EventType, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, event := range s.events {
		if event.Timestamp.Before(since) {
			continue
		}
		for _, t := range types {
			if event.EventType == t {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *Store) CountFailuresByIP(_ context.Context, ip string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, event := range s.events {
		if !event.Success && event.IPAddress == ip && !event.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListRecentFailures(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var failures []audit.Event
	for _, event := range s.events {
		if !event.Success {
			failures = append(failures, event)
		}
	}
	return newestFirst(failures, limit), nil
}

func (s *Store) ListIPsWithFailures(_ context.Context, minCount int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, event := range s.events {
		if !event.Success && event.IPAddress != "" {
			counts[event.IPAddress]++
		}
	}

	var ips []string
	for ip, count := range counts {
		if count >= minCount {
			ips = append(ips, ip)
		}
	}
	sort.Strings(ips)
	return ips, nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(append([]audit.Event{}, s.events...), limit), nil
}

func newestFirst(events []audit.Event, limit int) []audit.Event {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}
