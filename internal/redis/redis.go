package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"blouconnect/internal/config"
)

const (
	// keyPrefix namespaces every collection key.
	// Format: blouconnect:<key>
	keyPrefix = "blouconnect:"

	pingTimeout = 5 * time.Second
)

// Store keeps every collection as a plain Redis string value.
type Store struct {
	Logger *slog.Logger
	Config *config.Config

	client *redis.Client
}

func (s *Store) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "redis.Store")

	if s.Config.RedisURL == "" {
		return fmt.Errorf("redis URL cannot be empty")
	}

	opts, err := redis.ParseURL(s.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse redis URL '%s': %w", s.Config.RedisURL, err)
	}

	s.client = redis.NewClient(opts)

	return s.HealthCheck(ctx)
}

func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (s *Store) Shutdown(context.Context) error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
