package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// GlobalRateLimiter returns a pre-configured limiter middleware backed by
// the shared redis storage, so limits hold across instances.
func GlobalRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,               // 10 requests
		Expiration: 30 * time.Second, // per 30s window
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, slow down.",
			})
		},
	})
}

// RouteRateLimiter allows you to set custom limits per route
func RouteRateLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		},
	})
}

// redisCommands is the slice of the go-redis client the storage needs.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	FlushDB(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStorage adapts a go-redis client to fiber's Storage interface for the
// limiter above.
type RedisStorage struct {
	rdb redisCommands
}

func NewRedisStorage(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

var storageCtx = context.Background()

func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.rdb.Get(storageCtx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(storageCtx, key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.rdb.Del(storageCtx, key).Err()
}

func (s *RedisStorage) Reset() error {
	return s.rdb.FlushDB(storageCtx).Err()
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
