// Package index stores chunk vectors and answers nearest-neighbor queries.
package index

import (
	"math"
	"sort"
	"sync"

	"github.com/cloo-solutions/lexora/internal/domain"
)

// Match is one search hit: a chunk id and its similarity to the query.
type Match struct {
	ChunkID string
	Score   float64
}

// VectorIndex answers nearest-neighbor queries over added vectors. The
// contract guarantees ordering only; callers must not assume a particular
// search algorithm, so an approximate structure can replace the brute-force
// one as the corpus grows.
type VectorIndex interface {
	Add(chunkID string, vector []float32) error
	Search(query []float32, k int) []Match
	Len() int
	RemoveAll()
}

// Memory is an in-memory VectorIndex using exact brute-force cosine
// similarity. Appends never trigger a rebuild.
type Memory struct {
	mu       sync.RWMutex
	dim      int
	maxItems int
	ids      []string
	vectors  [][]float32
	norms    []float64
}

// NewMemory creates an empty index. maxItems <= 0 means unbounded.
func NewMemory(maxItems int) *Memory {
	return &Memory{maxItems: maxItems}
}

// Add appends a vector for chunkID. The first Add fixes the index dimension
// for the rest of the process lifetime.
func (m *Memory) Add(chunkID string, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxItems > 0 && len(m.ids) >= m.maxItems {
		return domain.ErrResourceExhausted
	}
	if m.dim == 0 {
		m.dim = len(vector)
	}
	if len(vector) != m.dim {
		return domain.ErrDimensionMismatch
	}

	m.ids = append(m.ids, chunkID)
	m.vectors = append(m.vectors, vector)
	m.norms = append(m.norms, norm(vector))
	return nil
}

// Search returns the k chunk ids most similar to query, by descending
// cosine similarity. Ties break toward the earlier-added chunk. k larger
// than the index size returns everything.
func (m *Memory) Search(query []float32, k int) []Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if k <= 0 || len(m.ids) == 0 {
		return nil
	}
	if k > len(m.ids) {
		k = len(m.ids)
	}

	qn := norm(query)
	matches := make([]Match, len(m.ids))
	for i := range m.ids {
		matches[i] = Match{ChunkID: m.ids[i], Score: cosine(query, qn, m.vectors[i], m.norms[i])}
	}

	// SliceStable keeps insertion order for equal scores.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	return matches[:k]
}

// Len returns the number of indexed vectors.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// RemoveAll drops every vector and releases backing storage so memory stays
// bounded across repeated load/clear cycles. The dimension resets with the
// contents.
func (m *Memory) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dim = 0
	m.ids = nil
	m.vectors = nil
	m.norms = nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine maps similarity into [0,1] so scores are usable as relevance
// directly: 1 is identical direction, 0.5 orthogonal, 0 opposite.
func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (an * bn)
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return (sim + 1) / 2
}
