package vector

import (
	"errors"
	"math"
	"reflect"
	"time"
)

// Metric is the distance metric used to score similarity queries.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dotproduct"
)

// Valid reports whether m is a supported metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return true
	}
	return false
}

var (
	ErrIndexNotFound     = errors.New("index not found")
	ErrIndexExists       = errors.New("index already exists")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// IndexInfo describes one vector index.
type IndexInfo struct {
	Name      string
	Dimension int
	Metric    Metric
	CreatedAt time.Time
}

// Record is one stored vector with its metadata.
type Record struct {
	ID       string
	Values   []float64
	Metadata map[string]any
}

// Match is one similarity-query result.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// IndexStats summarizes an index for reporting.
type IndexStats struct {
	Name        string
	Dimension   int
	Metric      Metric
	VectorCount int
}

// Store is a vector database: named indexes of fixed-dimension vectors with
// metadata, supporting upsert, similarity query, fetch, and delete.
type Store interface {
	CreateIndex(name string, dimension int, metric Metric) error
	DeleteIndex(name string) error
	ListIndexes() ([]IndexInfo, error)
	Upsert(index string, records []Record) (int, error)
	Query(index string, values []float64, topK int, filter map[string]any) ([]Match, error)
	Fetch(index string, ids []string) ([]Record, error)
	// Delete removes vectors by id, by metadata filter, or all at once.
	// It returns the number of vectors removed (-1 when unknown).
	Delete(index string, ids []string, filter map[string]any, all bool) (int, error)
	Stats(index string) (*IndexStats, error)
	Close() error
}

// score computes the similarity score between two equal-length vectors.
// For euclidean the score is a distance, where smaller is better.
func score(metric Metric, a, b []float64) float64 {
	switch metric {
	case MetricEuclidean:
		sum := 0.0
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	case MetricDotProduct:
		return dot(a, b)
	default: // cosine
		na, nb := norm(a), norm(b)
		if na == 0 || nb == 0 {
			return 0
		}
		return dot(a, b) / (na * nb)
	}
}

// better reports whether score x beats score y under the given metric.
func better(metric Metric, x, y float64) bool {
	if metric == MetricEuclidean {
		return x < y
	}
	return x > y
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

// matchesFilter reports whether metadata satisfies every key in the filter.
func matchesFilter(metadata, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
