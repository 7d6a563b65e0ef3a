package usecase

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/plasticlens/backend/internal/domain"
)

const (
	safestLimit           = 10
	packagingExampleLimit = 3
	organicExampleLimit   = 5
)

// QueryServiceConfig holds configuration for the query service
type QueryServiceConfig struct {
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// QueryService answers the analytic queries over the record store.
// Every operation is a read; none of them change the store.
type QueryService struct {
	store    domain.ProductStore
	resolver *ProductResolver
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewQueryService creates a new query service. cache may be nil to disable
// result caching.
func NewQueryService(
	store domain.ProductStore,
	cache domain.CacheRepository,
	config QueryServiceConfig,
) *QueryService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QueryService{
		store:    store,
		resolver: NewProductResolver(store),
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Search returns every product whose selected fields contain query, ignoring
// case, in store order.
func (s *QueryService) Search(ctx context.Context, query string, by domain.SearchBy) domain.SearchResult {
	if by == "" {
		by = domain.SearchAll
	}

	key := fmt.Sprintf("search:%s:%q", by, query)
	return cached(ctx, s, key, func() domain.SearchResult {
		matches := filter(s.store.All(), func(p domain.Product) bool {
			return by.Matches(p, query)
		})

		results := make([]domain.ProductSummary, 0, len(matches))
		for _, p := range matches {
			results = append(results, domain.ProductSummary{
				Identity:  p.Identity(),
				Location:  p.Location(),
				Tags:      p.Tags(),
				Chemicals: levels(p, domain.HeadlineChemicals),
			})
		}

		return domain.SearchResult{
			Query:    query,
			SearchBy: by,
			Count:    len(results),
			Results:  results,
		}
	})
}

// GetDetails returns the full projection of one product. It returns an error
// wrapping domain.ErrProductNotFound when the identifier does not resolve.
func (s *QueryService) GetDetails(ctx context.Context, identifier string) (*domain.ProductDetails, error) {
	p, ok := s.resolver.Resolve(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, identifier)
	}

	return &domain.ProductDetails{
		Identity:     p.Identity(),
		Tags:         p.Tags(),
		Location:     p.Location(),
		CollectedOn:  p.CollectedOn(),
		ServingSizeG: p.ServingSize(),
		Chemicals:    levels(p, domain.Chemicals()),
		Percentiles:  percentiles(p, domain.ReportedPercentiles),
	}, nil
}

// Compare resolves each identifier independently. Identifiers that do not
// resolve are dropped; repeated identifiers produce repeated entries.
func (s *QueryService) Compare(ctx context.Context, identifiers []string) domain.ComparisonResult {
	entries := make([]domain.ComparisonEntry, 0, len(identifiers))
	for _, id := range identifiers {
		p, ok := s.resolver.Resolve(id)
		if !ok {
			s.logger.Debug("compare: identifier not found", zap.String("identifier", id))
			continue
		}
		entries = append(entries, domain.ComparisonEntry{
			Identity:                  p.Identity(),
			Tags:                      p.Tags(),
			Location:                  p.Location(),
			Chemicals:                 levels(p, domain.ComparedChemicals),
			DEHPEquivalentsPercentile: p.Percentile(domain.DEHPEquivalents),
		})
	}

	return domain.ComparisonResult{
		Comparison: entries,
		Count:      len(entries),
	}
}

// FindSafestInCategory ranks the products whose tags contain category by
// ascending DEHP equivalents and returns the first ten. Ties keep store order.
func (s *QueryService) FindSafestInCategory(ctx context.Context, category string) domain.SafestResult {
	key := fmt.Sprintf("safest:%q", category)
	return cached(ctx, s, key, func() domain.SafestResult {
		matches := filter(s.store.All(), func(p domain.Product) bool {
			return p.TagsContain(category)
		})
		slices.SortStableFunc(matches, func(a, b domain.Product) int {
			return cmp.Compare(a.Level(domain.DEHPEquivalents), b.Level(domain.DEHPEquivalents))
		})

		top := matches[:min(len(matches), safestLimit)]
		ranked := make([]domain.RankedProduct, 0, len(top))
		for _, p := range top {
			ranked = append(ranked, domain.RankedProduct{
				Identity:                  p.Identity(),
				Tags:                      p.Tags(),
				Location:                  p.Location(),
				DEHPEquivalents:           p.Level(domain.DEHPEquivalents),
				DEHPEquivalentsPercentile: p.Percentile(domain.DEHPEquivalents),
			})
		}

		return domain.SafestResult{
			Category:       category,
			TotalFound:     len(matches),
			SafestProducts: ranked,
		}
	})
}

// AnalyzeByPackaging reports DEHP-equivalents statistics per packaging type.
// A non-empty packagingType first narrows the products to those tagged with
// it. Packaging types without matches are left out of the result.
func (s *QueryService) AnalyzeByPackaging(ctx context.Context, packagingType string) domain.PackagingAnalysis {
	working := s.store.All()
	if packagingType != "" {
		working = filter(working, func(p domain.Product) bool {
			return p.TagsContain(packagingType)
		})
	}

	analysis := make(domain.PackagingAnalysis, len(domain.PackagingTypes))
	for _, kind := range domain.PackagingTypes {
		group := filter(working, func(p domain.Product) bool {
			return p.TagsContain(kind)
		})
		if stats := summarize(group, packagingExampleLimit, false); stats != nil {
			analysis[kind] = *stats
		}
	}
	return analysis
}

// OrganicVsConventional splits products into those tagged organic and the
// rest. A non-empty foodType first narrows the products to those whose tags or
// name contain it. An empty side is reported as nil.
func (s *QueryService) OrganicVsConventional(ctx context.Context, foodType string) domain.OrganicComparison {
	working := s.store.All()
	if foodType != "" {
		working = filter(working, func(p domain.Product) bool {
			return p.TagsContain(foodType) || p.NameContains(foodType)
		})
	}

	var organic, conventional []domain.Product
	for _, p := range working {
		if p.TagsContain(domain.OrganicTag) {
			organic = append(organic, p)
		} else {
			conventional = append(conventional, p)
		}
	}

	return domain.OrganicComparison{
		FoodType:     foodType,
		Organic:      summarize(organic, organicExampleLimit, true),
		Conventional: summarize(conventional, organicExampleLimit, true),
	}
}

// Stats describes the loaded dataset.
func (s *QueryService) Stats(ctx context.Context) domain.DatasetStats {
	names := make([]string, 0, len(domain.Chemicals()))
	for _, c := range domain.Chemicals() {
		names = append(names, c.Name())
	}
	return domain.DatasetStats{
		Records:   s.store.Len(),
		Chemicals: names,
	}
}

// cached returns the cached value for key or computes and stores it.
// Values travel through the cache as JSON so hits never alias earlier results.
func cached[T any](ctx context.Context, s *QueryService, key string, compute func() T) T {
	if s.cache == nil {
		return compute()
	}

	if data, err := s.cache.Get(ctx, key); err == nil {
		var hit T
		if err := json.Unmarshal(data, &hit); err == nil {
			return hit
		}
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}

	value := compute()
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("result not cacheable", zap.String("key", key), zap.Error(err))
		return value
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		// Log but don't fail if caching fails
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value
}
