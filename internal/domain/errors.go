package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code and message, so the
// sentinels below stay comparable through errors.Is after WithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithCause returns a copy of the error carrying the given cause.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeUnsupportedFormat     = "UNSUPPORTED_FORMAT"
	ErrCodeExtraction            = "EXTRACTION_ERROR"
	ErrCodeEmbeddingFailure      = "EMBEDDING_FAILURE"
	ErrCodeResourceExhausted     = "RESOURCE_EXHAUSTED"
	ErrCodeNoDocumentsIndexed    = "NO_DOCUMENTS_INDEXED"
	ErrCodeModelUnavailable      = "MODEL_UNAVAILABLE"
	ErrCodeTimeout               = "TIMEOUT"
	ErrCodeInvalidQuery          = "INVALID_QUERY"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeInternalInconsistency = "INTERNAL_INCONSISTENCY"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// Ingestion errors
var (
	ErrUnsupportedFormat = NewDomainError(ErrCodeUnsupportedFormat, "unsupported document format")
	ErrExtraction        = NewDomainError(ErrCodeExtraction, "failed to extract text from document")
	ErrEmptyDocument     = NewDomainError(ErrCodeExtraction, "document contains no extractable text")
	ErrEmbeddingFailure  = NewDomainError(ErrCodeEmbeddingFailure, "failed to generate embedding")
	ErrResourceExhausted = NewDomainError(ErrCodeResourceExhausted, "index capacity exhausted")
)

// Query errors
var (
	ErrNoDocumentsIndexed = NewDomainError(ErrCodeNoDocumentsIndexed, "no documents indexed")
	ErrModelUnavailable   = NewDomainError(ErrCodeModelUnavailable, "generation model unavailable")
	ErrTimeout            = NewDomainError(ErrCodeTimeout, "request timed out")
	ErrEmptyQuestion      = NewDomainError(ErrCodeInvalidQuery, "question must not be empty")
	ErrInvalidTopK        = NewDomainError(ErrCodeInvalidQuery, "top_k must be a positive integer")
)

// Lookup errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrChunkNotFound    = NewDomainError(ErrCodeNotFound, "chunk not found")
)

// State errors
var (
	// ErrIndexDiverged marks a registry/index mismatch. Unrecoverable until
	// an explicit reset.
	ErrIndexDiverged     = NewDomainError(ErrCodeInternalInconsistency, "registry and vector index diverged")
	ErrSystemErrored     = NewDomainError(ErrCodeInternalInconsistency, "system in error state, reset required")
	ErrDimensionMismatch = NewDomainError(ErrCodeValidation, "embedding dimension mismatch")
)
