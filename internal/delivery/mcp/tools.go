package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plasticlens/backend/internal/domain"
)

// Tool names.
const (
	ToolSearchProducts        = "search_products"
	ToolGetProductDetails     = "get_product_details"
	ToolCompareProducts       = "compare_products"
	ToolFindSafestInCategory  = "find_safest_in_category"
	ToolAnalyzeByPackaging    = "analyze_by_packaging"
	ToolOrganicVsConventional = "organic_vs_conventional"
	ToolDatasetInfo           = "dataset_info"
)

// Query and Category are pointers so that an empty string is accepted and
// only a missing key fails "required". The empty string matches every record.
type searchArgs struct {
	Query    *string `json:"query" validate:"required"`
	SearchBy string  `json:"search_by" validate:"omitempty,oneofci=all name tags location"`
}

type detailsArgs struct {
	ProductID string `json:"product_id" validate:"required"`
}

type compareArgs struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
}

type categoryArgs struct {
	Category *string `json:"category" validate:"required"`
}

type packagingArgs struct {
	PackagingType string `json:"packaging_type"`
}

type organicArgs struct {
	FoodType string `json:"food_type"`
}

type tool struct {
	def *sdk.Tool
	run toolFunc
}

func (s *Server) tools() []tool {
	return []tool{
		{
			def: &sdk.Tool{
				Name: ToolSearchProducts,
				Description: "Search tested food products by name, tags or store location. " +
					"Matching is case-insensitive substring; search_by=all matches any of the three fields.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"query": stringProp("Text to look for"),
					"search_by": {
						Type:        "string",
						Description: "Field to search: all (default), name, tags or location. Case-insensitive.",
						Enum:        []any{"all", "name", "tags", "location"},
					},
				}, "query"),
				Annotations: readOnly("Search products"),
			},
			run: s.searchProducts,
		},
		{
			def: &sdk.Tool{
				Name:        ToolGetProductDetails,
				Description: "Get every chemical measurement and percentile for one product, by id, product_id or exact product name.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"product_id": stringProp("id, product_id or product name"),
				}, "product_id"),
				Annotations: readOnly("Product details"),
			},
			run: s.getProductDetails,
		},
		{
			def: &sdk.Tool{
				Name:        ToolCompareProducts,
				Description: "Compare chemical levels across several products. Identifiers that match nothing are skipped.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"product_ids": {
						Type:        "array",
						Description: "Identifiers to compare (id, product_id or product name)",
						Items:       &jsonschema.Schema{Type: "string"},
					},
				}, "product_ids"),
				Annotations: readOnly("Compare products"),
			},
			run: s.compareProducts,
		},
		{
			def: &sdk.Tool{
				Name:        ToolFindSafestInCategory,
				Description: "List the ten products with the lowest DEHP equivalents among those whose tags contain the category.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"category": stringProp("Category text matched against product tags"),
				}, "category"),
				Annotations: readOnly("Safest in category"),
			},
			run: s.findSafestInCategory,
		},
		{
			def: &sdk.Tool{
				Name:        ToolAnalyzeByPackaging,
				Description: "Summarize DEHP equivalents for plastic, glass and carton packaging. Packaging types with no products are left out.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"packaging_type": stringProp("Optional packaging type to restrict the analysis to"),
				}),
				Annotations: readOnly("Packaging analysis"),
			},
			run: s.analyzeByPackaging,
		},
		{
			def: &sdk.Tool{
				Name:        ToolOrganicVsConventional,
				Description: "Compare DEHP equivalents between organic and conventional products, optionally for one food type.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"food_type": stringProp("Optional text matched against tags or product name"),
				}),
				Annotations: readOnly("Organic vs conventional"),
			},
			run: s.organicVsConventional,
		},
		{
			def: &sdk.Tool{
				Name:        ToolDatasetInfo,
				Description: "Report how many products are loaded and which chemicals are measured.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{}),
				Annotations: readOnly("Dataset info"),
			},
			run: s.datasetInfo,
		},
	}
}

func (s *Server) searchProducts(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[searchArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}
	by, err := domain.ParseSearchBy(args.SearchBy)
	if err != nil {
		return nil, err
	}
	return s.service.Search(ctx, *args.Query, by), nil
}

func (s *Server) getProductDetails(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[detailsArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}

	details, err := s.service.GetDetails(ctx, args.ProductID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return notFound{Error: fmt.Sprintf("Product not found: %s", args.ProductID)}, nil
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *Server) compareProducts(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[compareArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}
	return s.service.Compare(ctx, args.ProductIDs), nil
}

func (s *Server) findSafestInCategory(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[categoryArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}
	return s.service.FindSafestInCategory(ctx, *args.Category), nil
}

func (s *Server) analyzeByPackaging(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[packagingArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}
	return s.service.AnalyzeByPackaging(ctx, args.PackagingType), nil
}

func (s *Server) organicVsConventional(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := decode[organicArgs](s.validate, raw)
	if err != nil {
		return nil, err
	}
	return s.service.OrganicVsConventional(ctx, args.FoodType), nil
}

func (s *Server) datasetInfo(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.service.Stats(ctx), nil
}

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func readOnly(title string) *sdk.ToolAnnotations {
	return &sdk.ToolAnnotations{
		Title:          title,
		ReadOnlyHint:   true,
		IdempotentHint: true,
	}
}
