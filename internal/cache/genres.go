package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookshelf/internal/http-api/models"
)

const genreListKey = "bookshelf:genres:all"

// GenreCache keeps the ordered genre list in redis. A nil cache, or one
// without a client, is a no-op that always misses.
type GenreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGenreCache(client *redis.Client, ttl time.Duration) *GenreCache {
	return &GenreCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, applies the password override and verifies
// the connection. An empty URL yields a disabled cache.
func Connect(ctx context.Context, url, password string, ttl time.Duration) (*GenreCache, error) {
	if url == "" {
		return NewGenreCache(nil, ttl), nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewGenreCache(rdb, ttl), nil
}

func (c *GenreCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached list. ok is false on a miss.
func (c *GenreCache) Get(ctx context.Context) (list []models.Genre, ok bool, err error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, genreListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("decode cached genres: %w", err)
	}
	return list, true, nil
}

func (c *GenreCache) Set(ctx context.Context, list []models.Genre) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, genreListKey, raw, c.ttl).Err()
}

func (c *GenreCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, genreListKey).Err()
}

func (c *GenreCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
