package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KeyTrending = "billboard:trending"
	KeyTopRated = "billboard:top_rated"
)

// BillboardCache keeps the TMDB listings in Redis so reads don't pay a
// provider round trip. The TTL mirrors the hourly revalidation the
// billboards need; merge results are never cached here.
type BillboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBillboardCache connects to Redis and verifies the connection.
func NewBillboardCache(redisURL, password string, ttl time.Duration) (*BillboardCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &BillboardCache{client: rdb, ttl: ttl}, nil
}

// GetMovies returns the cached listing for key, or (nil, false) on a miss.
func (c *BillboardCache) GetMovies(ctx context.Context, key string) ([]TMDBMovie, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var movies []TMDBMovie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, false
	}
	return movies, true
}

// SetMovies stores a listing under key with the cache TTL.
func (c *BillboardCache) SetMovies(ctx context.Context, key string, movies []TMDBMovie) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// GetImdbID returns a cached TMDB -> IMDb translation.
func (c *BillboardCache) GetImdbID(ctx context.Context, tmdbID int64) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, imdbKey(tmdbID)).Result()
	if err != nil {
		// a Redis failure is just a miss; the provider is the fallback
		return "", false
	}
	return val, true
}

// SetImdbID caches a translation. Ids never change, but the entry still
// expires with the cache TTL to bound stale negative lookups upstream.
func (c *BillboardCache) SetImdbID(ctx context.Context, tmdbID int64, imdbID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, imdbKey(tmdbID), imdbID, c.ttl).Err()
}

func imdbKey(tmdbID int64) string {
	return fmt.Sprintf("tmdb:imdb:%d", tmdbID)
}

// Close releases the Redis connection.
func (c *BillboardCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
