package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/pkg/models"
)

// RedisRepository stores sessions as JSON values in redis, for
// deployments that need sessions to survive restarts or to be shared
// across instances.
type RedisRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRepository connects a redis-backed repository.
func NewRedisRepository(cfg config.RedisConfig) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "zenium"
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + ":session:" + id
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &s, nil
}

func (r *RedisRepository) Put(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context, userID string) ([]*models.Session, error) {
	keys, err := r.client.Keys(ctx, r.prefix+":session:*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys failed: %w", err)
	}

	var out []*models.Session
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var s models.Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		if userID == "" || s.UserID == userID {
			out = append(out, &s)
		}
	}
	return out, nil
}

// Ping checks redis connectivity.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
