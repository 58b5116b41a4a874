package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/insightcrew/relata/internal/usecase/brief"
	"github.com/insightcrew/relata/pkg/config"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

const briefKeyPrefix = "brief:"

// redisBriefStore is the Redis-backed brief store. Server-side expiry
// handles cleanup; the freshness predicate upstream still re-checks age
// and generation from the stored entry.
type redisBriefStore struct {
	client *redis.Client
}

// NewRedisBriefStore creates a brief store over an existing Redis client.
func NewRedisBriefStore(client *redis.Client) brief.Store {
	return &redisBriefStore{client: client}
}

func (s *redisBriefStore) key(personID uuid.UUID) string {
	return briefKeyPrefix + personID.String()
}

func (s *redisBriefStore) Get(ctx context.Context, personID uuid.UUID) (*brief.Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.key(personID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read brief from redis: %w", err)
	}

	var entry brief.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached brief: %w", err)
	}
	return &entry, true, nil
}

func (s *redisBriefStore) Put(ctx context.Context, entry *brief.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode brief: %w", err)
	}
	if err := s.client.Set(ctx, s.key(entry.PersonID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write brief to redis: %w", err)
	}
	return nil
}

func (s *redisBriefStore) Delete(ctx context.Context, personID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(personID)).Err(); err != nil {
		return fmt.Errorf("failed to delete brief from redis: %w", err)
	}
	return nil
}

func (s *redisBriefStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, briefKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete brief from redis: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan brief keys: %w", err)
	}
	return nil
}
