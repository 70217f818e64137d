package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/usecase"
)

const (
	entryPrefix = "analysis:"
	orgPrefix   = "analysis:org:"

	setMaxElapsed     = 2 * time.Second
	setInitialBackoff = 50 * time.Millisecond
)

// ResultCache implements usecase.ResultCache on Redis. Besides the
// value keys it maintains a per-organization SET of member keys, so
// organization-wide invalidation never relies on SCAN.
//
// Store failures are logged and degrade to cache misses; they are
// never surfaced to the analysis path.
type ResultCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewResultCache creates a new ResultCache.
func NewResultCache(client *redis.Client, logger zerolog.Logger) *ResultCache {
	return &ResultCache{client: client, logger: logger}
}

// Get retrieves a cached result. Absent and expired keys, transport
// failures, and undecodable payloads all read as domain.ErrCacheMiss.
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	data, err := c.client.Get(ctx, entryPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, domain.ErrCacheMiss
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cached payload is not decodable, dropping")
		_ = c.client.Del(ctx, entryPrefix+key).Err()
		return nil, domain.ErrCacheMiss
	}

	return &result, nil
}

// Set stores a result with TTL, retrying transient failures briefly.
// A write that still fails degrades to a miss on the next read and
// returns nil.
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	org := usecase.OrganizationFromKey(key)

	write := func() error {
		pipe := c.client.TxPipeline()
		pipe.Set(ctx, entryPrefix+key, data, ttl)
		pipe.SAdd(ctx, orgPrefix+org, key)
		_, err := pipe.Exec(ctx)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = setInitialBackoff
	b.MaxElapsedTime = setMaxElapsed

	if err := backoff.Retry(write, backoff.WithContext(b, ctx)); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed after retries")
	}
	return nil
}

// Invalidate removes one entry and its index membership.
func (c *ResultCache) Invalidate(ctx context.Context, key string) error {
	org := usecase.OrganizationFromKey(key)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, entryPrefix+key)
	pipe.SRem(ctx, orgPrefix+org, key)
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateOrganization removes every entry recorded in the
// organization's index set, then the set itself. The count reflects
// entries that still existed; index members whose TTL already expired
// are not counted.
func (c *ResultCache) InvalidateOrganization(ctx context.Context, organizationID string) (int, error) {
	members, err := c.client.SMembers(ctx, orgPrefix+organizationID).Result()
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, c.client.Del(ctx, orgPrefix+organizationID).Err()
	}

	keys := make([]string, 0, len(members))
	for _, member := range members {
		keys = append(keys, entryPrefix+member)
	}

	removed, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	if err := c.client.Del(ctx, orgPrefix+organizationID).Err(); err != nil {
		return int(removed), err
	}
	return int(removed), nil
}

// Exists reports whether a fresh entry exists for key.
func (c *ResultCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, entryPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
