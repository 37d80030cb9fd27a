package domain

// DefaultTopK is the number of passages retrieved when the caller does not
// ask for a specific count.
const DefaultTopK = 3

// Query is a single question against the indexed corpus.
type Query struct {
	Question string
	TopK     int
}

// ValidateQuery rejects empty questions and non-positive top_k values.
func ValidateQuery(q Query) error {
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	if q.TopK <= 0 {
		return ErrInvalidTopK
	}
	return nil
}

// RetrievalResult is a single cited passage. relevance scores lie in [0,1]
// and are non-increasing within a returned list.
type RetrievalResult struct {
	ChunkID        string
	RelevanceScore float64
	ContentPreview string
}

// Timings records per-stage durations for one answered query, in seconds.
type Timings struct {
	EmbeddingSeconds  float64
	SearchSeconds     float64
	GenerationSeconds float64
	TotalSeconds      float64
}

// Answer is the grounded response to a query. Sources are ordered by
// descending relevance. Confidence is derived from retrieval scores alone so
// it stays computable when generation is degraded.
type Answer struct {
	Text        string
	Confidence  float64
	Sources     []RetrievalResult
	Performance Timings
}
