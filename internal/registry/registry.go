// Package registry tracks per-document metadata and owns the
// chunk-to-document mapping.
package registry

import (
	"sync"

	"github.com/cloo-solutions/lexora/internal/domain"
)

// Registry is the in-memory DocumentRegistry. Document and chunk ids are
// unique for the registry lifetime; a chunk exists here iff its vector
// exists in the index (the orchestrator enforces the pairing).
type Registry struct {
	mu     sync.RWMutex
	order  []string
	docs   map[string]*domain.Document
	chunks map[string]*domain.Chunk
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		docs:   make(map[string]*domain.Document),
		chunks: make(map[string]*domain.Chunk),
	}
}

// Add commits a document and its chunks. All-or-nothing: validation runs
// before anything is stored.
func (r *Registry) Add(doc *domain.Document, chunks []*domain.Chunk) error {
	if doc.ID == "" || doc.Filename == "" {
		return domain.ErrMissingRequiredField
	}
	for _, c := range chunks {
		if err := domain.ValidateChunk(c); err != nil {
			return err
		}
		if c.DocumentID != doc.ID {
			return domain.NewDomainError(domain.ErrCodeValidation, "chunk belongs to a different document")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return domain.NewDomainError(domain.ErrCodeValidation, "duplicate document id")
	}
	for _, c := range chunks {
		if _, exists := r.chunks[c.ID]; exists {
			return domain.NewDomainError(domain.ErrCodeValidation, "duplicate chunk id")
		}
	}

	r.order = append(r.order, doc.ID)
	r.docs[doc.ID] = doc
	for _, c := range chunks {
		r.chunks[c.ID] = c
	}
	return nil
}

// Get returns a document by id.
func (r *Registry) Get(documentID string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// List returns documents in insertion order.
func (r *Registry) List() []*domain.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out
}

// GetChunk resolves a chunk id to its chunk.
func (r *Registry) GetChunk(chunkID string) (*domain.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chunks[chunkID]
	if !ok {
		return nil, domain.ErrChunkNotFound
	}
	return c, nil
}

// DocumentCount returns the number of registered documents.
func (r *Registry) DocumentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// ChunkCount returns the total number of registered chunks.
func (r *Registry) ChunkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}

// Clear drops all documents and chunks and releases backing storage.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.docs = make(map[string]*domain.Document)
	r.chunks = make(map[string]*domain.Chunk)
}
