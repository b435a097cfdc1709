package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectToRedis opens the client backing the rate limiter storage and
// verifies the server is reachable before the listener starts.
func ConnectToRedis(addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(err)
	}
	return rdb
}
