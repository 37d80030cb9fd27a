package service

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/embedding"
	"github.com/cloo-solutions/lexora/internal/index"
	"github.com/cloo-solutions/lexora/internal/registry"
	"github.com/cloo-solutions/lexora/internal/telemetry"
)

// PreviewMaxChars bounds content previews. Truncation never splits a word,
// and the preview stays a verbatim substring of the chunk text.
const PreviewMaxChars = 120

// Passage is a retrieved chunk with its relevance score, before it is
// shaped into the response form.
type Passage struct {
	Chunk *domain.Chunk
	Score float64
}

// RetrievalEngine turns a question into ranked, cited candidate passages.
type RetrievalEngine struct {
	provider embedding.Provider
	idx      index.VectorIndex
	reg      *registry.Registry
}

// NewRetrievalEngine creates a RetrievalEngine over the shared index and
// registry.
func NewRetrievalEngine(provider embedding.Provider, idx index.VectorIndex, reg *registry.Registry) *RetrievalEngine {
	return &RetrievalEngine{provider: provider, idx: idx, reg: reg}
}

// Retrieve embeds the question, searches the index with top_k clamped to
// the corpus size, and resolves hits back to their chunks. The embed and
// search stage durations are written into timings.
func (e *RetrievalEngine) Retrieve(ctx context.Context, question string, topK int, timings *domain.Timings) ([]Passage, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalEngine.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	total := e.reg.ChunkCount()
	if total == 0 {
		return nil, domain.ErrNoDocumentsIndexed
	}
	if topK > total {
		topK = total
	}

	start := time.Now()
	qvec, err := e.provider.Embed(ctx, question)
	timings.EmbeddingSeconds = time.Since(start).Seconds()
	if err != nil {
		return nil, err
	}

	start = time.Now()
	matches := e.idx.Search(qvec, topK)
	timings.SearchSeconds = time.Since(start).Seconds()

	passages := make([]Passage, 0, len(matches))
	for _, m := range matches {
		c, err := e.reg.GetChunk(m.ChunkID)
		if err != nil {
			// The index knows a chunk the registry does not: the two
			// structures diverged.
			return nil, domain.ErrIndexDiverged
		}
		passages = append(passages, Passage{Chunk: c, Score: m.Score})
	}

	return passages, nil
}

// Results shapes passages into the response form, previews included.
func Results(passages []Passage) []domain.RetrievalResult {
	out := make([]domain.RetrievalResult, 0, len(passages))
	for _, p := range passages {
		out = append(out, domain.RetrievalResult{
			ChunkID:        p.Chunk.ID,
			RelevanceScore: p.Score,
			ContentPreview: Preview(p.Chunk.Text, PreviewMaxChars),
		})
	}
	return out
}

// Preview truncates text to at most maxChars without splitting a word. The
// result is always a verbatim substring of text.
func Preview(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	cut := strings.LastIndexFunc(text[:maxChars+1], unicode.IsSpace)
	if cut <= 0 {
		// No space to break on. Hard cut, snapped back to a rune start so
		// the preview stays valid UTF-8.
		cut = maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return strings.TrimRightFunc(text[:cut], unicode.IsSpace)
}
