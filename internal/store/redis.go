package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig addresses one Redis server.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis backs the shared rate-limit windows of the API.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds a client with short timeouts. Nothing is dialed until first use.
func NewRedis(cfg RedisConfig) *Redis {
	return &Redis{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

// Healthy reports whether a PING succeeds within ctx.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
