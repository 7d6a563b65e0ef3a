package usecase

import (
	"strings"

	"github.com/plasticlens/backend/internal/domain"
)

// ProductResolver finds a single product by identifier.
type ProductResolver struct {
	store domain.ProductStore
}

// NewProductResolver creates a resolver over store
func NewProductResolver(store domain.ProductStore) *ProductResolver {
	return &ProductResolver{store: store}
}

// Resolve returns the first product, in store order, whose id or product_id
// equals identifier or whose name equals it ignoring case. All three rules are
// checked per record, so an earlier record matching by name beats a later one
// matching by id. The bool is false when nothing matches.
func (r *ProductResolver) Resolve(identifier string) (domain.Product, bool) {
	if identifier == "" {
		return domain.Product{}, false
	}

	for _, p := range r.store.All() {
		if matchesIdentifier(p, identifier) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func matchesIdentifier(p domain.Product, identifier string) bool {
	return p.ID() == identifier ||
		p.ProductID() == identifier ||
		strings.EqualFold(p.Name(), identifier)
}
