// Package embedding turns text into fixed-length numeric vectors using an
// external embedding model service.
package embedding

import "context"

// Embedder generates one vector per input text. All vectors from one
// Embedder have the same length, reported by Dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}
