package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/fable/internal/config"
)

// Redis key layout. Saves live under one key each; the index is a sorted
// set scored by save time so listing and latest need no scan.
const (
	redisSaveKeyPrefix = "fable:save:"
	redisSaveIndexKey  = "fable:saves"
)

// RedisStore persists saves in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection.
//
// Postcondition: returns a pinged client or a non-nil error.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewRedisStore creates a RedisStore backed by the given client.
//
// Precondition: client must be a valid, open client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Save upserts the save and its index entry atomically.
func (s *RedisStore) Save(ctx context.Context, data SaveData) error {
	if data.ID == "" {
		return fmt.Errorf("invalid save ID %q", data.ID)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding save %s: %w", data.ID, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisSaveKeyPrefix+data.ID, raw, 0)
	pipe.ZAdd(ctx, redisSaveIndexKey, redis.Z{
		Score:  float64(data.SavedAt.UnixNano()),
		Member: data.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing save %s: %w", data.ID, err)
	}
	return nil
}

// Load reads one save by ID.
func (s *RedisStore) Load(ctx context.Context, id string) (SaveData, error) {
	raw, err := s.client.Get(ctx, redisSaveKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SaveData{}, ErrSaveNotFound
		}
		return SaveData{}, fmt.Errorf("reading save %s: %w", id, err)
	}
	var data SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SaveData{}, fmt.Errorf("decoding save %s: %w", id, err)
	}
	return data, nil
}

// List returns the metadata of every save, newest first.
func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.ZRevRange(ctx, redisSaveIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading save index: %w", err)
	}
	var out []Summary
	for _, id := range ids {
		data, err := s.Load(ctx, id)
		if errors.Is(err, ErrSaveNotFound) {
			// Index entry outlived its save; drop it.
			s.client.ZRem(ctx, redisSaveIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, data.Summarize())
	}
	return out, nil
}

// Latest returns the most recently written save.
func (s *RedisStore) Latest(ctx context.Context) (SaveData, error) {
	ids, err := s.client.ZRevRange(ctx, redisSaveIndexKey, 0, 0).Result()
	if err != nil {
		return SaveData{}, fmt.Errorf("reading save index: %w", err)
	}
	if len(ids) == 0 {
		return SaveData{}, ErrSaveNotFound
	}
	return s.Load(ctx, ids[0])
}

// Delete removes one save and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, redisSaveKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	if err := s.client.ZRem(ctx, redisSaveIndexKey, id).Err(); err != nil {
		return fmt.Errorf("deleting save index entry %s: %w", id, err)
	}
	if removed == 0 {
		return ErrSaveNotFound
	}
	return nil
}
