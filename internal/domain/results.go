package domain

// Identity holds the identifying fields of a product in response payloads.
type Identity struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
}

// Levels maps a source column name (e.g. "DEHP_ng_g") to a normalized value.
type Levels map[string]float64

// SearchResult is the outcome of a product search.
type SearchResult struct {
	Query    string           `json:"query"`
	SearchBy SearchBy         `json:"search_by"`
	Count    int              `json:"count"`
	Results  []ProductSummary `json:"results"`
}

// ProductSummary is the search projection of a product.
type ProductSummary struct {
	Identity
	Location  string `json:"location"`
	Tags      string `json:"tags"`
	Chemicals Levels `json:"chemicals"`
}

// ProductDetails is the full projection of a single product.
type ProductDetails struct {
	Identity
	Tags         string  `json:"tags"`
	Location     string  `json:"location"`
	CollectedOn  string  `json:"collected_on"`
	ServingSizeG float64 `json:"serving_size_g"`
	Chemicals    Levels  `json:"chemicals"`
	Percentiles  Levels  `json:"percentiles"`
}

// ComparisonResult is the outcome of comparing several products.
type ComparisonResult struct {
	Comparison []ComparisonEntry `json:"comparison"`
	Count      int               `json:"count"`
}

// ComparisonEntry is the comparison projection of a product.
type ComparisonEntry struct {
	Identity
	Tags                      string  `json:"tags"`
	Location                  string  `json:"location"`
	Chemicals                 Levels  `json:"chemicals"`
	DEHPEquivalentsPercentile float64 `json:"DEHP_equivalents_percentile"`
}

// SafestResult lists the lowest-DEHP-equivalents products of a category.
type SafestResult struct {
	Category       string          `json:"category"`
	TotalFound     int             `json:"total_found"`
	SafestProducts []RankedProduct `json:"safest_products"`
}

// RankedProduct is a product reported with its headline metric.
type RankedProduct struct {
	Identity
	Tags                      string  `json:"tags"`
	Location                  string  `json:"location"`
	DEHPEquivalents           float64 `json:"DEHP_equivalents_ng_g"`
	DEHPEquivalentsPercentile float64 `json:"DEHP_equivalents_percentile"`
}

// LevelStats summarizes DEHP equivalents across a group of products.
// The average is pre-formatted to two decimals.
type LevelStats struct {
	Count    int       `json:"count"`
	Average  string    `json:"average_dehp_equivalents"`
	Min      float64   `json:"min_dehp_equivalents"`
	Max      float64   `json:"max_dehp_equivalents"`
	Examples []Example `json:"examples"`
}

// Example is a sample product inside a LevelStats group.
type Example struct {
	Product         string  `json:"product"`
	Tags            string  `json:"tags,omitempty"`
	DEHPEquivalents float64 `json:"DEHP_equivalents_ng_g"`
}

// PackagingAnalysis maps a packaging type to its statistics.
// Packaging types with no matching products are absent.
type PackagingAnalysis map[string]LevelStats

// OrganicComparison contrasts organic and conventional products.
// A nil side means the partition was empty; both keys are always encoded.
type OrganicComparison struct {
	FoodType     string      `json:"food_type,omitempty"`
	Organic      *LevelStats `json:"organic"`
	Conventional *LevelStats `json:"conventional"`
}

// DatasetStats describes the loaded table.
type DatasetStats struct {
	Records   int      `json:"records"`
	Chemicals []string `json:"chemicals"`
}
