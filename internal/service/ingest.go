package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/lexora/internal/chunker"
	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/embedding"
	"github.com/cloo-solutions/lexora/internal/extractor"
	"github.com/cloo-solutions/lexora/internal/telemetry"
	"github.com/google/uuid"
)

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// IngestInput carries one upload through the ingestion pipeline. The caller
// has already validated size and derived the format at the edge.
type IngestInput struct {
	Filename string
	Format   extractor.Format
	Data     []byte
}

// IngestPipeline runs extract -> chunk -> embed and produces a document
// ready to commit. It holds no shared state; the orchestrator owns the
// commit.
type IngestPipeline struct {
	provider embedding.Provider
	chunkCfg chunker.Config
	uuidGen  UUIDGenerator
}

// NewIngestPipeline creates a pipeline with the given embedding provider
// and chunking configuration.
func NewIngestPipeline(provider embedding.Provider, chunkCfg chunker.Config) *IngestPipeline {
	return &IngestPipeline{
		provider: provider,
		chunkCfg: chunkCfg,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewIngestPipelineWithUUIDGen creates a pipeline with a custom UUID
// generator (for testing).
func NewIngestPipelineWithUUIDGen(provider embedding.Provider, chunkCfg chunker.Config, uuidGen UUIDGenerator) *IngestPipeline {
	return &IngestPipeline{
		provider: provider,
		chunkCfg: chunkCfg,
		uuidGen:  uuidGen,
	}
}

// Prepare turns raw bytes into an embedded, uncommitted document. Nothing
// touches shared state here, so a failure leaves the system exactly as it
// was.
func (p *IngestPipeline) Prepare(ctx context.Context, input IngestInput) (*domain.Document, []*domain.Chunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestPipeline.Prepare", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	text, err := extractor.Extract(input.Data, input.Format)
	if err != nil {
		return nil, nil, err
	}

	spans := chunker.Chunk(text, p.chunkCfg)
	if len(spans) == 0 {
		return nil, nil, domain.ErrEmptyDocument
	}

	doc := &domain.Document{
		ID:       p.uuidGen.NewString(),
		Filename: input.Filename,
		FileSize: int64(len(input.Data)),
		LoadedAt: time.Now().UTC(),
	}

	chunks := make([]*domain.Chunk, 0, len(spans))
	for _, s := range spans {
		vec, err := p.provider.Embed(ctx, s.Text)
		if err != nil {
			return nil, nil, err
		}

		c := &domain.Chunk{
			ID:          p.uuidGen.NewString(),
			DocumentID:  doc.ID,
			Text:        s.Text,
			StartOffset: s.Start,
			EndOffset:   s.End,
			Embedding:   vec,
		}
		doc.ChunkIDs = append(doc.ChunkIDs, c.ID)
		chunks = append(chunks, c)
	}

	return doc, chunks, nil
}
