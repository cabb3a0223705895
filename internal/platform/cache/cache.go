// Package cache provides a response cache for the heavy list endpoints.
// The backend is Redis in deployment and an in-memory map in tests and
// development. Write handlers invalidate by resource prefix, so a saved
// record is visible on the next list fetch instead of waiting out the
// TTL.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness for cached list responses.
const DefaultTTL = 60 * time.Second

// Store is the cache backend contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	InvalidatePrefix(ctx context.Context, prefix string)
}

// ---------------------------------------------------------------------------
// Redis store
// ---------------------------------------------------------------------------

// RedisStore is a Store backed by a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis at the given URL
// (redis://host:port/db) and verifies the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get retrieves a cached value. Any Redis error is treated as a miss;
// the cache is an optimization, never a dependency.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with the given TTL. Errors are dropped.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = s.client.Set(ctx, key, value, ttl).Err()
}

// InvalidatePrefix deletes all keys with the given prefix.
func (s *RedisStore) InvalidatePrefix(ctx context.Context, prefix string) {
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = s.client.Del(ctx, keys...).Err()
	}
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-memory Store with lazy expiration,
// used in tests and when no REDIS_URL is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

// Get retrieves a value, expiring it lazily.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

// Set stores a value with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &memoryEntry{data: value, expiresAt: time.Now().Add(ttl)}
}

// InvalidatePrefix deletes all keys with the given prefix.
func (s *MemoryStore) InvalidatePrefix(_ context.Context, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}
