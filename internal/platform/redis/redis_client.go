// Package redis constructs the shared Redis client.
package redis

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis using REDIS_HOST/REDIS_PORT/REDIS_PASSWORD.
// Redis is optional: when REDIS_HOST is unset it returns (nil, nil) and the
// caching layer degrades to pass-through.
func NewClient() (*redis.Client, error) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil, nil
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("redis connection failed", "address", host+":"+port, "error", err)
		return nil, err
	}

	slog.Info("redis connection successful", "address", host+":"+port)
	return rdb, nil
}
