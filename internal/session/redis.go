package session

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blondy007/Impostor/internal/models"
)

const usedWordKeyPrefix = "impostor:used:"

// RedisStore is a UsedWordStore backed by Redis sets, one set per
// difficulty tier. It lets the used-word record survive process restarts
// within one table session.
type RedisStore struct {
	client *redis.Client
}

// ConnectRedis initializes a RedisStore from environment variables:
//   - REDIS_ADDR (e.g. "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis(ctx context.Context) (*RedisStore, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) UsedIDs(ctx context.Context, difficulty models.Difficulty) (map[string]struct{}, error) {
	ids, err := s.client.SMembers(ctx, usedWordKey(difficulty)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read used words for %s: %w", difficulty, err)
	}
	snapshot := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		snapshot[id] = struct{}{}
	}
	return snapshot, nil
}

func (s *RedisStore) MarkUsed(ctx context.Context, difficulty models.Difficulty, wordID string) error {
	if err := s.client.SAdd(ctx, usedWordKey(difficulty), wordID).Err(); err != nil {
		return fmt.Errorf("failed to mark word %s used: %w", wordID, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	keys := make([]string, 0, len(models.Difficulties))
	for _, tier := range models.Difficulties {
		keys = append(keys, usedWordKey(tier))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset used words: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func usedWordKey(difficulty models.Difficulty) string {
	return usedWordKeyPrefix + string(difficulty)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
