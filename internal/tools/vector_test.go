package tools

import (
	"context"
	"strings"
	"testing"

	"StockScope/internal/vector"
)

// stubEmbedder maps each text to a fixed-dimension vector derived from its
// length, so ordering in similarity tests is deterministic.
type stubEmbedder struct {
	dimension int
}

func (e *stubEmbedder) Dimension() int { return e.dimension }

func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, e.dimension)
		for j := range vec {
			vec[j] = float64(len(text)+j) / 10
		}
		out[i] = vec
	}
	return out, nil
}

func testVectorTools() *VectorTools {
	return NewVectorTools(vector.NewMemoryStore(), &stubEmbedder{dimension: 3}, 3, vector.MetricCosine)
}

func TestCreateAndListIndexes(t *testing.T) {
	v := testVectorTools()

	res, _ := v.handleCreateIndex(context.Background(),
		callRequest(map[string]any{"name": "docs", "dimension": float64(3)}))
	text := resultText(t, res)
	if !strings.Contains(text, "Successfully created index 'docs'") {
		t.Errorf("unexpected create result %q", text)
	}

	res, _ = v.handleListIndexes(context.Background(), callRequest(nil))
	text = resultText(t, res)
	if !strings.Contains(text, "docs") || !strings.Contains(text, "cosine") {
		t.Errorf("index listing missing entry:\n%s", text)
	}
}

func TestCreateIndex_Duplicate(t *testing.T) {
	v := testVectorTools()

	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	res, _ := v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	if text := resultText(t, res); !strings.Contains(text, "already exists") {
		t.Errorf("unexpected duplicate result %q", text)
	}
}

func TestCreateIndex_InvalidMetric(t *testing.T) {
	v := testVectorTools()

	res, _ := v.handleCreateIndex(context.Background(),
		callRequest(map[string]any{"name": "docs", "metric": "manhattan"}))
	if text := resultText(t, res); !strings.Contains(text, "Invalid metric") {
		t.Errorf("unexpected result %q", text)
	}
}

func TestDeleteIndex_NotFound(t *testing.T) {
	v := testVectorTools()

	res, _ := v.handleDeleteIndex(context.Background(), callRequest(map[string]any{"name": "ghost"}))
	if text := resultText(t, res); !strings.Contains(text, "does not exist") {
		t.Errorf("unexpected result %q", text)
	}
}

func TestUpsertAndSearch(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))

	res, _ := v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha", "beta notes"},
		"metadata":   []any{map[string]any{"topic": "a"}, map[string]any{"topic": "b"}},
		"ids":        []any{"doc-1", "doc-2"},
	}))
	text := resultText(t, res)
	if !strings.Contains(text, "Successfully upserted 2 vectors") {
		t.Errorf("unexpected upsert result %q", text)
	}

	res, _ = v.handleSearch(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"query":      "alpha",
	}))
	text = resultText(t, res)
	if !strings.Contains(text, "SEMANTIC SEARCH RESULTS") || !strings.Contains(text, "doc-1") {
		t.Errorf("search results missing:\n%s", text)
	}
	if !strings.Contains(text, "Text: alpha") {
		t.Errorf("stored text should round-trip through metadata:\n%s", text)
	}
}

func TestSearch_MetadataFilter(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha", "omega"},
		"metadata":   []any{map[string]any{"topic": "a"}, map[string]any{"topic": "b"}},
		"ids":        []any{"doc-a", "doc-b"},
	}))

	res, _ := v.handleSearch(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"query":      "anything",
		"filter":     map[string]any{"topic": "b"},
	}))
	text := resultText(t, res)
	if strings.Contains(text, "doc-a") || !strings.Contains(text, "doc-b") {
		t.Errorf("filter not applied:\n%s", text)
	}
}

func TestUpsert_NoEmbedder(t *testing.T) {
	v := NewVectorTools(vector.NewMemoryStore(), nil, 3, vector.MetricCosine)
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))

	res, _ := v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha"},
	}))
	if text := resultText(t, res); text != "Error: Embedding model not available" {
		t.Errorf("unexpected result %q", text)
	}
}

func TestUpsert_GeneratesIDs(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha", "beta"},
	}))

	res, _ := v.handleIndexStats(context.Background(), callRequest(map[string]any{"index_name": "docs"}))
	if text := resultText(t, res); !strings.Contains(text, "Total vector count: 2") {
		t.Errorf("expected 2 stored vectors:\n%s", text)
	}
}

func TestGetVectors(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha"},
		"ids":        []any{"doc-1"},
	}))

	res, _ := v.handleGetVectors(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"ids":        []any{"doc-1", "missing"},
	}))
	text := resultText(t, res)
	if !strings.Contains(text, "ID: doc-1") || !strings.Contains(text, "Vector dimension: 3") {
		t.Errorf("fetched vector missing:\n%s", text)
	}
	if strings.Contains(text, "missing") {
		t.Errorf("unknown id should be silently absent:\n%s", text)
	}
}

func TestDeleteVectors_RequiresSelector(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))

	res, _ := v.handleDeleteVectors(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
	}))
	if text := resultText(t, res); !strings.Contains(text, "Must provide ids, filter, or set delete_all=true") {
		t.Errorf("unexpected result %q", text)
	}
}

func TestDeleteVectors_All(t *testing.T) {
	v := testVectorTools()
	v.handleCreateIndex(context.Background(), callRequest(map[string]any{"name": "docs"}))
	v.handleUpsert(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"texts":      []any{"alpha", "beta"},
	}))

	res, _ := v.handleDeleteVectors(context.Background(), callRequest(map[string]any{
		"index_name": "docs",
		"delete_all": true,
	}))
	if text := resultText(t, res); !strings.Contains(text, "deleted ALL vectors") {
		t.Errorf("unexpected result %q", text)
	}

	res, _ = v.handleIndexStats(context.Background(), callRequest(map[string]any{"index_name": "docs"}))
	if text := resultText(t, res); !strings.Contains(text, "Total vector count: 0") {
		t.Errorf("expected empty index after delete_all:\n%s", text)
	}
}
