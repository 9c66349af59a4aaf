// Package cache provides the key-value store used for session records and
// password-reset tokens. It supports both an embedded redis (miniredis) and
// an external redis server.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noyan-alimov/lireddit-server/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	client    *redis.Client
	miniRedis *miniredis.Miniredis
	ctx       = context.Background()
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("cache: key not found")

// InitRedis initializes the redis client. An empty redisAddr starts an
// embedded redis instead of connecting to an external server.
func InitRedis(redisAddr string) error {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		logger.Infof("Embedded redis started on %s", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		if _, err := client.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
		}
		logger.Infof("Connected to external redis at %s", redisAddr)
	}

	return nil
}

// GetClient returns the redis client instance.
func GetClient() *redis.Client {
	return client
}

// Close closes the redis connection and stops the embedded redis if running.
func Close() error {
	if client != nil {
		if err := client.Close(); err != nil {
			return err
		}
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return nil
}

// Set stores a value with an expiration.
func Set(key string, value any, expiration time.Duration) error {
	if client == nil {
		return errors.New("redis client not initialized")
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value. Missing keys return ErrNotFound.
func Get(key string) (string, error) {
	if client == nil {
		return "", errors.New("redis client not initialized")
	}
	result, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return result, err
}

// Delete removes a key.
func Delete(key string) error {
	if client == nil {
		return errors.New("redis client not initialized")
	}
	return client.Del(ctx, key).Err()
}
