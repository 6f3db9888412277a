package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	"github.com/lecture-insight-team/lecture-insight/pkg/config"
)

// runKeyPrefix namespaces run records in Redis
const runKeyPrefix = "run:"

// RedisRunStore is the Redis-backed run repository. One JSON document per
// run under run:<id>, expiring after the configured TTL.
type RedisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRunStore connects to Redis and verifies the connection
func NewRedisRunStore(cfg *config.Config) (*RedisRunStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.Redis.RunTTL
	if ttl <= 0 {
		ttl = defaultRunTTL
	}

	return &RedisRunStore{client: client, ttl: ttl}, nil
}

// Save persists the run record and refreshes its TTL
func (rs *RedisRunStore) Save(ctx context.Context, run *entities.AnalysisRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, runKeyPrefix+run.ID, payload, rs.ttl).Err()
}

// FindByID retrieves a run by ID
func (rs *RedisRunStore) FindByID(ctx context.Context, id string) (*entities.AnalysisRun, error) {
	payload, err := rs.client.Get(ctx, runKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	var run entities.AnalysisRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a run record
func (rs *RedisRunStore) Delete(ctx context.Context, id string) error {
	return rs.client.Del(ctx, runKeyPrefix+id).Err()
}

// Close releases the underlying connection pool
func (rs *RedisRunStore) Close() error {
	return rs.client.Close()
}
