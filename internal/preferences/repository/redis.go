package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"police_fines/internal/i18n"
)

// LanguageKey is the redis key holding the preference.
const LanguageKey = "language"

// Redis stores the preference under LanguageKey.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client. The client lifecycle is managed by the caller.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisClient parses redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context) (i18n.Language, bool, error) {
	value, err := r.client.Get(ctx, LanguageKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load language: %w", err)
	}
	return i18n.Language(value), true, nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, lang i18n.Language) error {
	if err := r.client.Set(ctx, LanguageKey, string(lang), 0).Err(); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
