// Package casecache caches raw case detail payloads in Redis. Detail
// fetches are the slow path of every search, and case documents change
// rarely enough that a short TTL is safe; the cache is strictly an
// optimization and every operation degrades to the uncached path.
package casecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the case is not cached.
var ErrCacheMiss = errors.New("case not in cache")

const (
	keyPrefix  = "efmkit:case:"
	DefaultTTL = 10 * time.Minute

	pingTimeout = 5 * time.Second
)

// Store is a Redis-backed cache of case detail documents, keyed by court
// and tracking id. A nil *Store is valid and caches nothing.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Config configures a Store.
type Config struct {
	// URL is a redis:// connection string.
	URL string

	// TTL bounds how stale a cached case can get. Zero means DefaultTTL.
	TTL time.Duration

	Logger *slog.Logger
}

// NewStore connects to Redis and verifies the connection before returning.
func NewStore(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		client: client,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}, nil
}

// NewStoreWithClient builds a Store from an existing client, for tests and
// callers that manage their own connection.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, logger: slog.Default()}
}

func key(courtID, trackingID string) string {
	return keyPrefix + courtID + ":" + trackingID
}

// Get returns the cached detail document for a case, or ErrCacheMiss.
func (s *Store) Get(ctx context.Context, courtID, trackingID string) (any, error) {
	if s == nil {
		return nil, ErrCacheMiss
	}
	raw, err := s.client.Get(ctx, key(courtID, trackingID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached case: %w", err)
	}

	var detail any
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return nil, fmt.Errorf("unmarshal cached case: %w", err)
	}
	return detail, nil
}

// Put caches a case detail document under the store's TTL.
func (s *Store) Put(ctx context.Context, courtID, trackingID string, detail any) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal case for cache: %w", err)
	}
	if err := s.client.Set(ctx, key(courtID, trackingID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache case: %w", err)
	}
	return nil
}

// Invalidate drops a cached case, for callers that just filed into it.
func (s *Store) Invalidate(ctx context.Context, courtID, trackingID string) error {
	if s == nil {
		return nil
	}
	if err := s.client.Del(ctx, key(courtID, trackingID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached case: %w", err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
