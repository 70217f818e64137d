package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/finboard/variance/internal/domain"
)

// MockResultCache is a mock implementation of usecase.ResultCache
// backed by a plain map with no expiry.
type MockResultCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.AnalysisResult

	GetFunc                    func(ctx context.Context, key string) (*domain.AnalysisResult, error)
	SetFunc                    func(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error
	InvalidateFunc             func(ctx context.Context, key string) error
	InvalidateOrganizationFunc func(ctx context.Context, organizationID string) (int, error)
	ExistsFunc                 func(ctx context.Context, key string) (bool, error)
}

func NewMockResultCache() *MockResultCache {
	return &MockResultCache{
		entries: make(map[string]*domain.AnalysisResult),
	}
}

func (m *MockResultCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if result, ok := m.entries[key]; ok {
		return result, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockResultCache) Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, result, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = result
	return nil
}

func (m *MockResultCache) Invalidate(ctx context.Context, key string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MockResultCache) InvalidateOrganization(ctx context.Context, organizationID string) (int, error) {
	if m.InvalidateOrganizationFunc != nil {
		return m.InvalidateOrganizationFunc(ctx, organizationID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := organizationID + ":"
	removed := 0
	for key := range m.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *MockResultCache) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key]
	return ok, nil
}

// Len reports how many entries the default store holds.
func (m *MockResultCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator
// producing sequential ids.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("analysis-%d", m.next)
}
