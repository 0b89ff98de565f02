package principal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStore is a read-through Redis cache in front of another Store. Cache
// failures fall through to the inner store; the gateway's credential lookup
// stays correct with or without Redis.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(identifier string) string {
	return "principal:" + identifier
}

func (s *CachedStore) FindByIdentifier(ctx context.Context, identifier string) (*Principal, error) {
	raw, err := s.client.Get(ctx, cacheKey(identifier)).Result()
	if err == nil {
		var p Principal
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
		// Corrupt entry; fall through and overwrite below.
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("principal cache read failed", "error", err)
	}

	p, err := s.inner.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(p); err == nil {
		if err := s.client.Set(ctx, cacheKey(identifier), encoded, s.ttl).Err(); err != nil {
			s.logger.Warn("principal cache write failed", "error", err)
		}
	}
	return p, nil
}

func (s *CachedStore) Create(ctx context.Context, p *Principal) error {
	if err := s.inner.Create(ctx, p); err != nil {
		return err
	}
	// Drop any stale entry rather than writing the new one; the next lookup
	// repopulates.
	if err := s.client.Del(ctx, cacheKey(p.Identifier)).Err(); err != nil {
		s.logger.Warn("principal cache invalidation failed", "error", err)
	}
	return nil
}

var _ Store = (*CachedStore)(nil)
