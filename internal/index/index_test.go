package index

import (
	"errors"
	"testing"

	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Search_OrdersByDescendingScore(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("a", []float32{1, 0, 0}))
	require.NoError(t, idx.Add("b", []float32{0, 1, 0}))
	require.NoError(t, idx.Add("c", []float32{0.9, 0.1, 0}))

	matches := idx.Search([]float32{1, 0, 0}, 3)

	require.Len(t, matches, 3)
	assert.Equal(t, "a", matches[0].ChunkID)
	assert.Equal(t, "c", matches[1].ChunkID)
	assert.Equal(t, "b", matches[2].ChunkID)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestMemory_Search_ScoresWithinUnitInterval(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("same", []float32{1, 0}))
	require.NoError(t, idx.Add("opposite", []float32{-1, 0}))
	require.NoError(t, idx.Add("orthogonal", []float32{0, 1}))

	matches := idx.Search([]float32{1, 0}, 3)

	require.Len(t, matches, 3)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.InDelta(t, 0.5, matches[1].Score, 1e-9)
	assert.InDelta(t, 0.0, matches[2].Score, 1e-9)
}

func TestMemory_Search_TiesBreakTowardInsertionOrder(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("first", []float32{1, 0}))
	require.NoError(t, idx.Add("second", []float32{1, 0}))
	require.NoError(t, idx.Add("third", []float32{1, 0}))

	matches := idx.Search([]float32{1, 0}, 3)

	require.Len(t, matches, 3)
	assert.Equal(t, "first", matches[0].ChunkID)
	assert.Equal(t, "second", matches[1].ChunkID)
	assert.Equal(t, "third", matches[2].ChunkID)
}

func TestMemory_Search_ClampsKToSize(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("only", []float32{1, 0}))

	matches := idx.Search([]float32{1, 0}, 10)

	assert.Len(t, matches, 1)
}

func TestMemory_Search_EmptyIndex(t *testing.T) {
	idx := NewMemory(0)
	assert.Nil(t, idx.Search([]float32{1, 0}, 3))
}

func TestMemory_Add_DimensionMismatch(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("a", []float32{1, 0, 0}))

	err := idx.Add("b", []float32{1, 0})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}

func TestMemory_Add_CapacityExhausted(t *testing.T) {
	idx := NewMemory(2)
	require.NoError(t, idx.Add("a", []float32{1, 0}))
	require.NoError(t, idx.Add("b", []float32{0, 1}))

	err := idx.Add("c", []float32{1, 1})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResourceExhausted))
	assert.Equal(t, 2, idx.Len())
}

func TestMemory_RemoveAll_ResetsDimension(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("a", []float32{1, 0, 0}))

	idx.RemoveAll()

	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Search([]float32{1, 0, 0}, 1))
	// A different dimension is accepted after a reset.
	assert.NoError(t, idx.Add("b", []float32{1, 0}))
}

func TestMemory_ZeroVectorScoresZero(t *testing.T) {
	idx := NewMemory(0)
	require.NoError(t, idx.Add("zero", []float32{0, 0}))

	matches := idx.Search([]float32{1, 0}, 1)

	require.Len(t, matches, 1)
	assert.Equal(t, 0.0, matches[0].Score)
}
