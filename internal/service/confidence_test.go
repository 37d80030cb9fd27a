package service

import (
	"testing"

	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMeanRelevance_Score(t *testing.T) {
	policy := MeanRelevance{}

	results := []domain.RetrievalResult{
		{RelevanceScore: 0.9},
		{RelevanceScore: 0.7},
		{RelevanceScore: 0.5},
	}

	assert.InDelta(t, 0.7, policy.Score(results), 1e-9)
}

func TestMeanRelevance_Score_Empty(t *testing.T) {
	assert.Equal(t, 0.0, MeanRelevance{}.Score(nil))
}

func TestMeanRelevance_Score_SingleResult(t *testing.T) {
	results := []domain.RetrievalResult{{RelevanceScore: 0.85}}
	assert.InDelta(t, 0.85, MeanRelevance{}.Score(results), 1e-9)
}

func TestTopWeighted_Score(t *testing.T) {
	policy := TopWeighted{GapWeight: 0.5}

	results := []domain.RetrievalResult{
		{RelevanceScore: 0.9},
		{RelevanceScore: 0.5},
	}

	// top + weight * (top - second) = 0.9 + 0.5*0.4
	assert.InDelta(t, 1.0, policy.Score(results), 1e-9)
}

func TestTopWeighted_Score_TopOnly(t *testing.T) {
	policy := TopWeighted{}

	results := []domain.RetrievalResult{
		{RelevanceScore: 0.6},
		{RelevanceScore: 0.4},
	}

	assert.InDelta(t, 0.6, policy.Score(results), 1e-9)
}

func TestTopWeighted_Score_ClampsToOne(t *testing.T) {
	policy := TopWeighted{GapWeight: 10}

	results := []domain.RetrievalResult{
		{RelevanceScore: 0.9},
		{RelevanceScore: 0.1},
	}

	assert.Equal(t, 1.0, policy.Score(results))
}

func TestTopWeighted_Score_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TopWeighted{GapWeight: 0.5}.Score(nil))
}
