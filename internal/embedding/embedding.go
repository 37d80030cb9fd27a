// Package embedding maps text to fixed-dimension vectors.
package embedding

import "context"

// Provider is the single capability the pipeline depends on for embeddings.
// The same provider instance must serve both chunk indexing and queries so
// the vector geometry is comparable.
type Provider interface {
	// Embed returns a vector of dimension Dimension() for the given text.
	// Deterministic for identical input under a fixed model version.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed vector dimension D.
	Dimension() int
}
