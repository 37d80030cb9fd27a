package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeInvalidQuery, "question must not be empty")
	assert.Equal(t, "[INVALID_QUERY] question must not be empty", err.Error())

	wrapped := err.WithCause(errors.New("boom"))
	assert.Equal(t, "[INVALID_QUERY] question must not be empty: boom", wrapped.Error())
}

func TestDomainError_WithCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ErrModelUnavailable.WithCause(cause)

	assert.Equal(t, ErrCodeModelUnavailable, err.Code)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrModelUnavailable))
}

func TestDomainError_As(t *testing.T) {
	err := ErrExtraction.WithCause(errors.New("bad zip"))

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrCodeExtraction, domainErr.Code)
}

func TestDomainError_SentinelsCarryExpectedCodes(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrUnsupportedFormat, ErrCodeUnsupportedFormat},
		{ErrExtraction, ErrCodeExtraction},
		{ErrEmbeddingFailure, ErrCodeEmbeddingFailure},
		{ErrResourceExhausted, ErrCodeResourceExhausted},
		{ErrNoDocumentsIndexed, ErrCodeNoDocumentsIndexed},
		{ErrModelUnavailable, ErrCodeModelUnavailable},
		{ErrTimeout, ErrCodeTimeout},
		{ErrEmptyQuestion, ErrCodeInvalidQuery},
		{ErrInvalidTopK, ErrCodeInvalidQuery},
		{ErrIndexDiverged, ErrCodeInternalInconsistency},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
	}
}

func TestValidateQuery(t *testing.T) {
	assert.NoError(t, ValidateQuery(Query{Question: "q", TopK: 3}))

	err := ValidateQuery(Query{Question: "", TopK: 3})
	assert.True(t, errors.Is(err, ErrEmptyQuestion))

	err = ValidateQuery(Query{Question: "q", TopK: 0})
	assert.True(t, errors.Is(err, ErrInvalidTopK))

	err = ValidateQuery(Query{Question: "q", TopK: -1})
	assert.True(t, errors.Is(err, ErrInvalidTopK))
}

func TestValidateChunk(t *testing.T) {
	valid := &Chunk{ID: "c1", DocumentID: "d1", Text: "text", StartOffset: 0, EndOffset: 4}
	assert.NoError(t, ValidateChunk(valid))

	missing := &Chunk{DocumentID: "d1", Text: "text", EndOffset: 4}
	assert.ErrorIs(t, ValidateChunk(missing), ErrMissingRequiredField)

	empty := &Chunk{ID: "c1", DocumentID: "d1", Text: "", EndOffset: 4}
	assert.Error(t, ValidateChunk(empty))

	inverted := &Chunk{ID: "c1", DocumentID: "d1", Text: "text", StartOffset: 5, EndOffset: 4}
	assert.Error(t, ValidateChunk(inverted))
}
