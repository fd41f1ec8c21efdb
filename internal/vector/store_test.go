package vector

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

// storeUnderTest builds each Store implementation against the same suite.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStore_IndexLifecycle(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.CreateIndex("docs", 3, MetricCosine); err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := store.CreateIndex("docs", 3, MetricCosine); !errors.Is(err, ErrIndexExists) {
				t.Errorf("duplicate create: expected ErrIndexExists, got %v", err)
			}

			infos, err := store.ListIndexes()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(infos) != 1 || infos[0].Name != "docs" || infos[0].Dimension != 3 || infos[0].Metric != MetricCosine {
				t.Errorf("unexpected index list: %+v", infos)
			}

			if err := store.DeleteIndex("docs"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.DeleteIndex("docs"); !errors.Is(err, ErrIndexNotFound) {
				t.Errorf("second delete: expected ErrIndexNotFound, got %v", err)
			}
		})
	}
}

func TestStore_UpsertAndQuery(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.CreateIndex("docs", 2, MetricCosine); err != nil {
				t.Fatalf("create: %v", err)
			}

			n, err := store.Upsert("docs", []Record{
				{ID: "east", Values: []float64{1, 0}, Metadata: map[string]any{"topic": "a"}},
				{ID: "north", Values: []float64{0, 1}, Metadata: map[string]any{"topic": "b"}},
				{ID: "northeast", Values: []float64{1, 1}, Metadata: map[string]any{"topic": "a"}},
			})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if n != 3 {
				t.Errorf("expected 3 upserted, got %d", n)
			}

			matches, err := store.Query("docs", []float64{1, 0}, 2, nil)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(matches) != 2 {
				t.Fatalf("expected 2 matches, got %d", len(matches))
			}
			if matches[0].ID != "east" {
				t.Errorf("expected exact match first, got %s", matches[0].ID)
			}
			if math.Abs(matches[0].Score-1.0) > 1e-9 {
				t.Errorf("expected cosine score 1.0 for identical vector, got %v", matches[0].Score)
			}
			if matches[1].ID != "northeast" {
				t.Errorf("expected northeast second, got %s", matches[1].ID)
			}

			// Metadata filter narrows results.
			filtered, err := store.Query("docs", []float64{1, 0}, 10, map[string]any{"topic": "b"})
			if err != nil {
				t.Fatalf("filtered query: %v", err)
			}
			if len(filtered) != 1 || filtered[0].ID != "north" {
				t.Errorf("expected only north, got %+v", filtered)
			}
		})
	}
}

func TestStore_DimensionMismatch(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.CreateIndex("docs", 3, MetricCosine); err != nil {
				t.Fatalf("create: %v", err)
			}
			_, err := store.Upsert("docs", []Record{{ID: "bad", Values: []float64{1, 2}}})
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("upsert: expected ErrDimensionMismatch, got %v", err)
			}
			if _, err := store.Query("docs", []float64{1, 2}, 5, nil); !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("query: expected ErrDimensionMismatch, got %v", err)
			}
		})
	}
}

func TestStore_FetchAndDelete(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.CreateIndex("docs", 1, MetricDotProduct); err != nil {
				t.Fatalf("create: %v", err)
			}
			_, err := store.Upsert("docs", []Record{
				{ID: "a", Values: []float64{1}, Metadata: map[string]any{"group": "x"}},
				{ID: "b", Values: []float64{2}, Metadata: map[string]any{"group": "y"}},
				{ID: "c", Values: []float64{3}, Metadata: map[string]any{"group": "x"}},
			})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}

			records, err := store.Fetch("docs", []string{"a", "missing", "c"})
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(records) != 2 {
				t.Errorf("expected 2 fetched records, got %d", len(records))
			}

			n, err := store.Delete("docs", nil, map[string]any{"group": "x"}, false)
			if err != nil {
				t.Fatalf("filter delete: %v", err)
			}
			if n != 2 {
				t.Errorf("expected 2 deleted by filter, got %d", n)
			}

			stats, err := store.Stats("docs")
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.VectorCount != 1 {
				t.Errorf("expected 1 vector left, got %d", stats.VectorCount)
			}

			n, err = store.Delete("docs", nil, nil, true)
			if err != nil {
				t.Fatalf("delete all: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 deleted by delete-all, got %d", n)
			}
		})
	}
}

func TestStore_EuclideanOrdersAscending(t *testing.T) {
	store := NewMemoryStore()
	if err := store.CreateIndex("docs", 1, MetricEuclidean); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.Upsert("docs", []Record{
		{ID: "far", Values: []float64{10}},
		{ID: "near", Values: []float64{1.5}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	matches, err := store.Query("docs", []float64{1}, 2, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if matches[0].ID != "near" {
		t.Errorf("euclidean: expected smallest distance first, got %s", matches[0].ID)
	}
}
