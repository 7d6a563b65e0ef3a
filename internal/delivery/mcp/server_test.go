package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasticlens/backend/internal/domain"
	"github.com/plasticlens/backend/internal/infrastructure/dataset"
	"github.com/plasticlens/backend/internal/usecase"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rows := []map[string]string{
		{"id": "1", "product_id": "P1", "product": "Milk", "tags": "dairy,organic,glass", "collected_at": "Whole Foods", "DEHP_equivalents_ng_g": "10"},
		{"id": "2", "product_id": "P2", "product": "Milk Conventional", "tags": "dairy,plastic", "collected_at": "Safeway", "DEHP_equivalents_ng_g": "<LOQ"},
		{"id": "3", "product_id": "P3", "product": "Orange Juice", "tags": "beverage,carton", "collected_at": "Costco", "DEHP_equivalents_ng_g": "42"},
	}
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, domain.NewProduct(r))
	}
	svc := usecase.NewQueryService(dataset.NewStore(products), nil, usecase.QueryServiceConfig{})
	return NewServer(svc, Config{Name: "plasticlens-test", Version: "0.0.1"}, nil)
}

// call invokes a registered tool handler directly.
func call(t *testing.T, s *Server, name, args string) *sdk.CallToolResult {
	t.Helper()
	h, ok := s.handlers[name]
	require.True(t, ok, "tool %s not registered", name)

	req := &sdk.CallToolRequest{Params: &sdk.CallToolParamsRaw{Name: name}}
	if args != "" {
		req.Params.Arguments = json.RawMessage(args)
	}
	res, err := h(context.Background(), req)
	require.NoError(t, err, "tool errors must not surface as protocol errors")
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func decodeText(t *testing.T, res *sdk.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	return out
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{
		ToolSearchProducts, ToolGetProductDetails, ToolCompareProducts,
		ToolFindSafestInCategory, ToolAnalyzeByPackaging, ToolOrganicVsConventional,
		ToolDatasetInfo,
	} {
		assert.Contains(t, s.handlers, name)
	}
	assert.NotNil(t, s.MCPServer())
}

func TestSearchProducts(t *testing.T) {
	s := newTestServer(t)

	t.Run("matches tags under all", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":"beverage"}`)

		assert.False(t, res.IsError)
		out := decodeText(t, res)
		assert.Equal(t, float64(1), out["count"])
		assert.Equal(t, "all", out["search_by"])
	})

	t.Run("explicit field", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":"milk","search_by":"name"}`)

		out := decodeText(t, res)
		assert.Equal(t, float64(2), out["count"])
	})

	t.Run("invalid search_by", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":"milk","search_by":"brand"}`)

		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "search_by must be one of")
	})

	t.Run("search_by ignores case", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":"milk","search_by":"NAME"}`)

		assert.False(t, res.IsError, text(t, res))
		out := decodeText(t, res)
		assert.Equal(t, "name", out["search_by"])
		assert.Equal(t, float64(2), out["count"])
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":""}`)

		assert.False(t, res.IsError, text(t, res))
		assert.Equal(t, float64(3), decodeText(t, res)["count"])
	})

	t.Run("null query is missing", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":null}`)

		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "query is required")
	})

	t.Run("missing query", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{}`)

		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "query is required")
	})

	t.Run("wrong argument type", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, `{"query":42}`)

		assert.True(t, res.IsError)
	})

	t.Run("no arguments at all", func(t *testing.T) {
		res := call(t, s, ToolSearchProducts, "")

		assert.True(t, res.IsError)
	})
}

func TestGetProductDetails(t *testing.T) {
	s := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		res := call(t, s, ToolGetProductDetails, `{"product_id":"P3"}`)

		assert.False(t, res.IsError)
		out := decodeText(t, res)
		assert.Equal(t, "Orange Juice", out["product"])
		chemicals := out["chemicals"].(map[string]any)
		assert.Equal(t, float64(42), chemicals["DEHP_equivalents_ng_g"])
		assert.NotNil(t, res.StructuredContent)
	})

	t.Run("not found is a normal payload", func(t *testing.T) {
		res := call(t, s, ToolGetProductDetails, `{"product_id":"ghost-id"}`)

		assert.False(t, res.IsError)
		out := decodeText(t, res)
		assert.Equal(t, "Product not found: ghost-id", out["error"])
	})

	t.Run("missing identifier is rejected", func(t *testing.T) {
		res := call(t, s, ToolGetProductDetails, `{"product_id":""}`)

		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "product_id is required")
	})
}

func TestCompareProducts(t *testing.T) {
	s := newTestServer(t)

	t.Run("drops unknown identifiers", func(t *testing.T) {
		res := call(t, s, ToolCompareProducts, `{"product_ids":["1","ghost-id"]}`)

		out := decodeText(t, res)
		assert.Equal(t, float64(1), out["count"])
		assert.Len(t, out["comparison"], 1)
	})

	t.Run("empty list is rejected", func(t *testing.T) {
		res := call(t, s, ToolCompareProducts, `{"product_ids":[]}`)

		assert.True(t, res.IsError)
	})
}

func TestFindSafestInCategory(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s, ToolFindSafestInCategory, `{"category":"dairy"}`)

	out := decodeText(t, res)
	assert.Equal(t, "dairy", out["category"])
	assert.Equal(t, float64(2), out["total_found"])
	products := out["safest_products"].([]any)
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].(map[string]any)["id"])
}

func TestFindSafestInCategory_Arguments(t *testing.T) {
	s := newTestServer(t)

	t.Run("empty category ranks every product", func(t *testing.T) {
		res := call(t, s, ToolFindSafestInCategory, `{"category":""}`)

		assert.False(t, res.IsError, text(t, res))
		out := decodeText(t, res)
		assert.Equal(t, float64(3), out["total_found"])
		products := out["safest_products"].([]any)
		require.Len(t, products, 3)
		assert.Equal(t, "2", products[0].(map[string]any)["id"])
		assert.Equal(t, "3", products[2].(map[string]any)["id"])
	})

	t.Run("missing category", func(t *testing.T) {
		res := call(t, s, ToolFindSafestInCategory, `{}`)

		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "category is required")
	})
}

func TestAnalyzeByPackaging(t *testing.T) {
	s := newTestServer(t)

	t.Run("without filter", func(t *testing.T) {
		out := decodeText(t, call(t, s, ToolAnalyzeByPackaging, `{}`))

		assert.Len(t, out, 3)
		glass := out["glass"].(map[string]any)
		assert.Equal(t, "10.00", glass["average_dehp_equivalents"])
	})

	t.Run("with filter", func(t *testing.T) {
		out := decodeText(t, call(t, s, ToolAnalyzeByPackaging, `{"packaging_type":"carton"}`))

		assert.Len(t, out, 1)
		assert.Contains(t, out, "carton")
	})
}

func TestOrganicVsConventional(t *testing.T) {
	s := newTestServer(t)

	t.Run("both partitions", func(t *testing.T) {
		out := decodeText(t, call(t, s, ToolOrganicVsConventional, `{"food_type":"milk"}`))

		organic := out["organic"].(map[string]any)
		conventional := out["conventional"].(map[string]any)
		assert.Equal(t, "10.00", organic["average_dehp_equivalents"])
		assert.Equal(t, "0.00", conventional["average_dehp_equivalents"])
	})

	t.Run("empty partition is null, not omitted", func(t *testing.T) {
		out := decodeText(t, call(t, s, ToolOrganicVsConventional, `{"food_type":"juice"}`))

		require.Contains(t, out, "organic")
		assert.Nil(t, out["organic"])
		assert.NotNil(t, out["conventional"])
	})
}

func TestDatasetInfo(t *testing.T) {
	out := decodeText(t, call(t, newTestServer(t), ToolDatasetInfo, ""))

	assert.Equal(t, float64(3), out["records"])
}

func TestHandle_RecoversPanics(t *testing.T) {
	s := newTestServer(t)
	h := s.handle("exploding", func(ctx context.Context, _ json.RawMessage) (any, error) {
		panic("projection failed")
	})

	res, err := h(context.Background(), &sdk.CallToolRequest{Params: &sdk.CallToolParamsRaw{Name: "exploding"}})

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "projection failed")
}

func TestHandle_UnexpectedError(t *testing.T) {
	s := newTestServer(t)
	h := s.handle("failing", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return nil, assert.AnError
	})

	res, err := h(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), assert.AnError.Error())
}

func TestHandle_UnencodableResult(t *testing.T) {
	s := newTestServer(t)
	h := s.handle("channel", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return map[string]any{"c": make(chan int)}, nil
	})

	res, err := h(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.IsError)
}
