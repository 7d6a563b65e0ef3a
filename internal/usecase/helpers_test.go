package usecase

import (
	"context"
	"time"

	"github.com/plasticlens/backend/internal/domain"
	"github.com/plasticlens/backend/internal/infrastructure/dataset"
)

// row is a shorthand for building source rows in tests.
type row map[string]string

func newStore(rows ...row) *dataset.Store {
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, domain.NewProduct(r))
	}
	return dataset.NewStore(products)
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	getError error
	setError error
	gets     int
	sets     int
	deletes  int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deletes++
	delete(m.data, key)
	return nil
}
