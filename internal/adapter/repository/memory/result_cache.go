package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/usecase"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// ResultCache implements usecase.ResultCache with an in-process map.
// Entries are stored serialized so cached results keep value
// semantics, and a per-organization key index makes organization-wide
// invalidation a map lookup rather than a scan.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	byOrg   map[string]map[string]struct{}
	now     func() time.Time
}

// NewResultCache creates an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]entry),
		byOrg:   make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

// Get returns the cached result for key. Expired entries count as
// absent.
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return nil, domain.ErrCacheMiss
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(e.data, &result); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

// Set stores a result with TTL.
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	org := usecase.OrganizationFromKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	if c.byOrg[org] == nil {
		c.byOrg[org] = make(map[string]struct{})
	}
	c.byOrg[org][key] = struct{}{}
	return nil
}

// Invalidate removes one entry.
func (c *ResultCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	return nil
}

// InvalidateOrganization removes every entry for the organization.
func (c *ResultCache) InvalidateOrganization(ctx context.Context, organizationID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.byOrg[organizationID]
	removed := 0
	for key := range keys {
		if _, ok := c.entries[key]; ok {
			removed++
		}
		delete(c.entries, key)
	}
	delete(c.byOrg, organizationID)
	return removed, nil
}

// Exists reports whether a fresh entry exists for key.
func (c *ResultCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return ok && !c.now().After(e.expiresAt), nil
}

// Sweep evicts expired entries and returns how many were removed.
// Callers run it periodically; reads never serve expired entries
// whether or not a sweep has happened.
func (c *ResultCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done.
func (c *ResultCache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// remove deletes key from the store and the org index. Callers hold
// the write lock.
func (c *ResultCache) remove(key string) {
	delete(c.entries, key)

	org := usecase.OrganizationFromKey(key)
	if keys, ok := c.byOrg[org]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.byOrg, org)
		}
	}
}
