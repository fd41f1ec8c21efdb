package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"StockScope/internal/embedding"
	"StockScope/internal/vector"
)

// VectorTools exposes the vector-database tool set over MCP. All operations
// are thin delegation to the store and embedder; no derived logic lives here.
type VectorTools struct {
	Store            vector.Store
	Embedder         embedding.Embedder // nil when no embedding service is configured
	DefaultDimension int
	DefaultMetric    vector.Metric
}

// NewVectorTools creates the vector tool set.
func NewVectorTools(store vector.Store, embedder embedding.Embedder, defaultDimension int, defaultMetric vector.Metric) *VectorTools {
	return &VectorTools{
		Store:            store,
		Embedder:         embedder,
		DefaultDimension: defaultDimension,
		DefaultMetric:    defaultMetric,
	}
}

// Register adds all vector tools to the MCP server.
func (v *VectorTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("create_index",
		mcp.WithDescription("Create a new vector index"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Index name")),
		mcp.WithNumber("dimension", mcp.Description("Vector dimension"), mcp.DefaultNumber(384)),
		mcp.WithString("metric", mcp.Description("Distance metric (cosine, euclidean, dotproduct)"),
			mcp.DefaultString("cosine"), mcp.Enum("cosine", "euclidean", "dotproduct")),
	), v.handleCreateIndex)

	s.AddTool(mcp.NewTool("delete_index",
		mcp.WithDescription("Delete a vector index"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Index name to delete")),
	), v.handleDeleteIndex)

	s.AddTool(mcp.NewTool("list_indexes",
		mcp.WithDescription("List all vector indexes"),
	), v.handleListIndexes)

	s.AddTool(mcp.NewTool("upsert_vectors",
		mcp.WithDescription("Insert or update vectors in an index"),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Target index name")),
		mcp.WithArray("texts", mcp.Required(), mcp.Description("Text content to embed and store"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("metadata", mcp.Description("Optional metadata for each text (same length as texts)"),
			mcp.Items(map[string]any{"type": "object"})),
		mcp.WithArray("ids", mcp.Description("Optional custom IDs (auto-generated if not provided)"),
			mcp.Items(map[string]any{"type": "string"})),
	), v.handleUpsert)

	s.AddTool(mcp.NewTool("semantic_search",
		mcp.WithDescription("Perform semantic search in an index"),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Index to search in")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query text")),
		mcp.WithNumber("top_k", mcp.Description("Number of results to return"), mcp.DefaultNumber(5)),
		mcp.WithObject("filter", mcp.Description("Optional metadata filter")),
		mcp.WithBoolean("include_metadata", mcp.Description("Include metadata in results"), mcp.DefaultBool(true)),
	), v.handleSearch)

	s.AddTool(mcp.NewTool("get_vectors",
		mcp.WithDescription("Retrieve specific vectors by ID"),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Index name")),
		mcp.WithArray("ids", mcp.Required(), mcp.Description("Vector IDs to retrieve"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("include_metadata", mcp.Description("Include metadata"), mcp.DefaultBool(true)),
	), v.handleGetVectors)

	s.AddTool(mcp.NewTool("delete_vectors",
		mcp.WithDescription("Delete vectors by ID or filter"),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Index name")),
		mcp.WithArray("ids", mcp.Description("Vector IDs to delete"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithObject("filter", mcp.Description("Metadata filter for deletion")),
		mcp.WithBoolean("delete_all", mcp.Description("Delete all vectors in index (use with caution)"),
			mcp.DefaultBool(false)),
	), v.handleDeleteVectors)

	s.AddTool(mcp.NewTool("index_stats",
		mcp.WithDescription("Get index statistics and information"),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Index name")),
	), v.handleIndexStats)
}

func (v *VectorTools) handleCreateIndex(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	dimension := req.GetInt("dimension", v.DefaultDimension)
	if dimension <= 0 {
		return mcp.NewToolResultError("Error: Dimension must be positive"), nil
	}
	metric := vector.Metric(req.GetString("metric", string(v.DefaultMetric)))
	if !metric.Valid() {
		return mcp.NewToolResultError("Error: Invalid metric. Use one of: cosine, euclidean, dotproduct"), nil
	}

	if err := v.Store.CreateIndex(name, dimension, metric); err != nil {
		if err == vector.ErrIndexExists {
			return mcp.NewToolResultError(fmt.Sprintf("Index '%s' already exists", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error creating index: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Successfully created index '%s' with dimension %d and metric '%s'", name, dimension, metric)), nil
}

func (v *VectorTools) handleDeleteIndex(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	if err := v.Store.DeleteIndex(name); err != nil {
		if err == vector.ErrIndexNotFound {
			return mcp.NewToolResultError(fmt.Sprintf("Index '%s' does not exist", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error deleting index: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("🗑️ Successfully deleted index '%s'", name)), nil
}

func (v *VectorTools) handleListIndexes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := v.Store.ListIndexes()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error listing indexes: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatIndexList(infos)), nil
}

func (v *VectorTools) handleUpsert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireString("index_name")
	if err != nil || index == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	texts := req.GetStringSlice("texts", nil)
	if len(texts) == 0 {
		return mcp.NewToolResultError("Error: No texts provided"), nil
	}
	if v.Embedder == nil {
		return mcp.NewToolResultError("Error: Embedding model not available"), nil
	}

	metadata := objectSlice(req.GetArguments(), "metadata")
	ids := req.GetStringSlice("ids", nil)

	vectors, err := v.Embedder.Embed(ctx, texts)
	if err != nil {
		logrus.Warnf("embed %d texts: %v", len(texts), err)
		return mcp.NewToolResultError(fmt.Sprintf("Error generating embeddings: %v", err)), nil
	}

	records := make([]vector.Record, len(texts))
	now := time.Now().Format(time.RFC3339)
	for i, text := range texts {
		id := uuid.NewString()
		if i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		meta := map[string]any{}
		if i < len(metadata) {
			for k, val := range metadata[i] {
				meta[k] = val
			}
		}
		meta["text"] = text
		meta["timestamp"] = now
		records[i] = vector.Record{ID: id, Values: vectors[i], Metadata: meta}
	}

	count, err := v.Store.Upsert(index, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error upserting vectors: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Successfully upserted %d vectors to index '%s'\nUpserted count: %d", len(records), index, count)), nil
}

func (v *VectorTools) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireString("index_name")
	if err != nil || index == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	query, err := req.RequireString("query")
	if err != nil || query == "" {
		return mcp.NewToolResultError("Error: Query text is required"), nil
	}
	if v.Embedder == nil {
		return mcp.NewToolResultError("Error: Embedding model not available"), nil
	}
	topK := req.GetInt("top_k", 5)
	includeMetadata := req.GetBool("include_metadata", true)
	filter := objectArg(req.GetArguments(), "filter")

	vectors, err := v.Embedder.Embed(ctx, []string{query})
	if err != nil {
		logrus.Warnf("embed query: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error generating query embedding: %v", err)), nil
	}

	matches, err := v.Store.Query(index, vectors[0], topK, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error performing search: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatSearchResults(query, matches, includeMetadata)), nil
}

func (v *VectorTools) handleGetVectors(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireString("index_name")
	if err != nil || index == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	ids := req.GetStringSlice("ids", nil)
	if len(ids) == 0 {
		return mcp.NewToolResultError("Error: No IDs provided"), nil
	}
	includeMetadata := req.GetBool("include_metadata", true)

	records, err := v.Store.Fetch(index, ids)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving vectors: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatFetchedVectors(index, records, includeMetadata)), nil
}

func (v *VectorTools) handleDeleteVectors(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireString("index_name")
	if err != nil || index == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	ids := req.GetStringSlice("ids", nil)
	filter := objectArg(req.GetArguments(), "filter")
	deleteAll := req.GetBool("delete_all", false)

	if !deleteAll && len(ids) == 0 && len(filter) == 0 {
		return mcp.NewToolResultError("Error: Must provide ids, filter, or set delete_all=true"), nil
	}

	count, err := v.Store.Delete(index, ids, filter, deleteAll)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error deleting vectors: %v", err)), nil
	}
	switch {
	case deleteAll:
		return mcp.NewToolResultText(fmt.Sprintf("🗑️ Successfully deleted ALL vectors from index '%s'", index)), nil
	case len(ids) > 0:
		return mcp.NewToolResultText(fmt.Sprintf("🗑️ Successfully deleted %d vectors from index '%s'", count, index)), nil
	default:
		return mcp.NewToolResultText(fmt.Sprintf("🗑️ Successfully deleted vectors matching filter from index '%s'", index)), nil
	}
}

func (v *VectorTools) handleIndexStats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireString("index_name")
	if err != nil || index == "" {
		return mcp.NewToolResultError("Error: Index name is required"), nil
	}
	stats, err := v.Store.Stats(index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error getting index stats: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatIndexStats(stats)), nil
}

// objectArg extracts a JSON-object argument as a map, or nil when absent.
func objectArg(args map[string]any, key string) map[string]any {
	if m, ok := args[key].(map[string]any); ok {
		return m
	}
	return nil
}

// objectSlice extracts an array-of-objects argument.
func objectSlice(args map[string]any, key string) []map[string]any {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		} else {
			out = append(out, nil)
		}
	}
	return out
}
