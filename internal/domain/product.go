package domain

import "strings"

// Source table column names for the descriptive fields.
const (
	ColumnID          = "id"
	ColumnProductID   = "product_id"
	ColumnProductName = "product"
	ColumnTags        = "tags"
	ColumnCollectedAt = "collected_at"
	ColumnCollectedOn = "collected_on"
	ColumnServingSize = "serving_size_g"
)

// Product is one measured food item from the source table.
//
// Fields are unexported and there are no setters: a Product is built once by
// NewProduct and is immutable afterwards. Chemical values live in arrays so a
// copy never shares state with the original.
type Product struct {
	id          string
	productID   string
	name        string
	tags        string
	collectedAt string
	collectedOn string
	servingSize string

	levels      [chemicalCount]string
	percentiles [chemicalCount]string
}

// NewProduct builds a Product from one source row. Absent keys become "".
func NewProduct(row map[string]string) Product {
	p := Product{
		id:          row[ColumnID],
		productID:   row[ColumnProductID],
		name:        row[ColumnProductName],
		tags:        row[ColumnTags],
		collectedAt: row[ColumnCollectedAt],
		collectedOn: row[ColumnCollectedOn],
		servingSize: row[ColumnServingSize],
	}
	for _, c := range Chemicals() {
		p.levels[c] = row[c.Column()]
		p.percentiles[c] = row[c.PercentileColumn()]
	}
	return p
}

func (p Product) ID() string          { return p.id }
func (p Product) ProductID() string   { return p.productID }
func (p Product) Name() string        { return p.name }
func (p Product) Tags() string        { return p.tags }
func (p Product) Location() string    { return p.collectedAt }
func (p Product) CollectedOn() string { return p.collectedOn }

// ServingSize returns the normalized serving size in grams.
func (p Product) ServingSize() float64 {
	return ParseMeasurement(p.servingSize)
}

// Level returns the normalized measurement for c in ng/g.
func (p Product) Level(c Chemical) float64 {
	if c < 0 || c >= chemicalCount {
		return 0
	}
	return ParseMeasurement(p.levels[c])
}

// Percentile returns the normalized percentile rank for c.
func (p Product) Percentile(c Chemical) float64 {
	if c < 0 || c >= chemicalCount {
		return 0
	}
	return ParseMeasurement(p.percentiles[c])
}

// Identity returns the identity fields in their response shape.
func (p Product) Identity() Identity {
	return Identity{ID: p.id, ProductID: p.productID, Product: p.name}
}

// TagsContain reports whether the raw tags text contains sub, ignoring case.
// This is a plain substring test: "milk" also matches "buttermilk".
func (p Product) TagsContain(sub string) bool {
	return containsFold(p.tags, sub)
}

// NameContains reports whether the product name contains sub, ignoring case.
func (p Product) NameContains(sub string) bool {
	return containsFold(p.name, sub)
}

// LocationContains reports whether the collection location contains sub, ignoring case.
func (p Product) LocationContains(sub string) bool {
	return containsFold(p.collectedAt, sub)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
