package domain

import "time"

// Document tracks per-document metadata for an ingested file. Documents are
// created on successful ingestion and destroyed only by a full reset.
type Document struct {
	ID       string
	Filename string
	FileSize int64
	LoadedAt time.Time
	ChunkIDs []string
}

// ChunkCount returns the number of chunks the document was split into.
func (d *Document) ChunkCount() int {
	return len(d.ChunkIDs)
}

// Chunk is a contiguous span of a document's extracted text, the unit of
// retrieval. Immutable after ingestion.
type Chunk struct {
	ID          string
	DocumentID  string
	Text        string
	StartOffset int
	EndOffset   int
	Embedding   []float32
}

// ValidateChunk checks chunk invariants before the chunk is committed.
func ValidateChunk(c *Chunk) error {
	if c.ID == "" || c.DocumentID == "" {
		return ErrMissingRequiredField
	}
	if c.Text == "" {
		return NewDomainError(ErrCodeValidation, "chunk text must not be empty")
	}
	if c.StartOffset < 0 || c.EndOffset <= c.StartOffset {
		return NewDomainError(ErrCodeValidation, "chunk offsets out of order")
	}
	return nil
}

// ErrMissingRequiredField is returned when a required field is empty.
var ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
