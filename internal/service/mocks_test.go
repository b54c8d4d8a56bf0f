package service

import (
	"context"
	"sync"

	"github.com/rdearco/nuel-supply-sight-tw/internal/cache"
	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, patch domain.ProductUpdate) (*domain.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id string, transfer domain.StockTransfer) (*domain.Product, error) {
	args := m.Called(ctx, id, transfer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Warehouses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockProductRepository) ID() string {
	return m.Called().String(0)
}

// memoryKPICache records traffic so tests can observe cache use. Several
// services may share one instance, the way replicas share a Redis.
type memoryKPICache struct {
	mu          sync.Mutex
	entries     map[cache.KPIKey]domain.KPIData
	hits        int
	invalidated int
}

func newMemoryKPICache() *memoryKPICache {
	return &memoryKPICache{entries: make(map[cache.KPIKey]domain.KPIData)}
}

func (c *memoryKPICache) GetKPIs(ctx context.Context, key cache.KPIKey) (domain.KPIData, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kpis, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return kpis, ok, nil
}

func (c *memoryKPICache) SetKPIs(ctx context.Context, key cache.KPIKey, kpis domain.KPIData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = kpis
	return nil
}

func (c *memoryKPICache) InvalidateStore(ctx context.Context, storeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.StoreID == storeID {
			delete(c.entries, key)
		}
	}
	c.invalidated++
	return nil
}

func (c *memoryKPICache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *memoryKPICache) Close() error { return nil }
