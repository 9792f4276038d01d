// Package cache stores ranked candidate lists in Redis keyed by a fingerprint of the history.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

const keyPrefix = "studio:ranking:"

// NewRedis returns a Redis client after checking the server answers
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}

// RankingCache caches sorted, unrotated candidate lists. A nil client disables it.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRankingCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RankingCache {
	return &RankingCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached ranking for the fingerprint. ok is false on a miss.
func (c *RankingCache) Get(ctx context.Context, fingerprint string) ([]allocator.Candidate, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", Key(fingerprint), err)
	}

	var candidates []allocator.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, fmt.Errorf("unmarshal ranking for %s: %w", fingerprint, err)
	}

	c.logger.Debug("Ranking cache hit", zap.String("fingerprint", fingerprint), zap.Int("candidates", len(candidates)))
	return candidates, true, nil
}

// Set stores the ranking for the fingerprint
func (c *RankingCache) Set(ctx context.Context, fingerprint string, candidates []allocator.Candidate) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("marshal ranking for %s: %w", fingerprint, err)
	}

	if err := c.client.Set(ctx, Key(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(fingerprint), err)
	}
	return nil
}

// Close releases the Redis connection if present
func (c *RankingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Key returns the Redis key for a fingerprint
func Key(fingerprint string) string {
	return keyPrefix + fingerprint
}

// Fingerprint hashes the records in order. Any change to the history changes the fingerprint.
func Fingerprint(records []model.HistoricalRecord) string {
	h := sha256.New()
	for _, r := range records {
		for _, field := range []string{
			r.Format,
			string(r.Day),
			r.Time,
			r.Location,
			string(r.Teacher),
			strconv.Itoa(r.CheckedIn),
			strconv.FormatFloat(r.Revenue, 'f', -1, 64),
		} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
