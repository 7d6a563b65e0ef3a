package dataset

import (
	"slices"

	"github.com/plasticlens/backend/internal/domain"
)

// Store is the immutable, ordered record store built once at startup.
type Store struct {
	products []domain.Product
}

// NewStore wraps products in source order. The slice is copied.
func NewStore(products []domain.Product) *Store {
	return &Store{products: slices.Clone(products)}
}

// All returns every product in source order.
func (s *Store) All() []domain.Product {
	return slices.Clone(s.products)
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}
