package usecase

import (
	"fmt"

	"github.com/plasticlens/backend/internal/domain"
)

// summarize computes DEHP-equivalents statistics for products. It returns nil
// for an empty group. Examples keep input order and are capped at maxExamples.
func summarize(products []domain.Product, maxExamples int, withTags bool) *domain.LevelStats {
	if len(products) == 0 {
		return nil
	}

	var sum float64
	lowest := products[0].Level(domain.DEHPEquivalents)
	highest := lowest
	for _, p := range products {
		v := p.Level(domain.DEHPEquivalents)
		sum += v
		lowest = min(lowest, v)
		highest = max(highest, v)
	}

	examples := make([]domain.Example, 0, min(len(products), maxExamples))
	for _, p := range products[:min(len(products), maxExamples)] {
		ex := domain.Example{
			Product:         p.Name(),
			DEHPEquivalents: p.Level(domain.DEHPEquivalents),
		}
		if withTags {
			ex.Tags = p.Tags()
		}
		examples = append(examples, ex)
	}

	return &domain.LevelStats{
		Count:    len(products),
		Average:  fmt.Sprintf("%.2f", sum/float64(len(products))),
		Min:      lowest,
		Max:      highest,
		Examples: examples,
	}
}

// filter returns the products for which keep is true, in order.
func filter(products []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// levels projects the given chemicals of p, keyed by source column.
func levels(p domain.Product, chemicals []domain.Chemical) domain.Levels {
	out := make(domain.Levels, len(chemicals))
	for _, c := range chemicals {
		out[c.Column()] = p.Level(c)
	}
	return out
}

// percentiles projects the given percentile ranks of p, keyed by source column.
func percentiles(p domain.Product, chemicals []domain.Chemical) domain.Levels {
	out := make(domain.Levels, len(chemicals))
	for _, c := range chemicals {
		out[c.PercentileColumn()] = p.Percentile(c)
	}
	return out
}
