package service

import "github.com/cloo-solutions/lexora/internal/domain"

// ConfidencePolicy derives an answer confidence in [0,1] from the retrieval
// score distribution. Policies only see relevance scores, so confidence
// stays computable when generation is degraded.
type ConfidencePolicy interface {
	Score(results []domain.RetrievalResult) float64
}

// MeanRelevance scores confidence as the mean relevance of the returned
// sources.
type MeanRelevance struct{}

// Score implements ConfidencePolicy.
func (MeanRelevance) Score(results []domain.RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.RelevanceScore
	}
	return clamp01(sum / float64(len(results)))
}

// TopWeighted blends the best hit's relevance with the gap down to the
// runner-up: a strong, clearly separated top hit scores higher than a flat
// distribution of mediocre ones.
type TopWeighted struct {
	// GapWeight controls how much the top-to-second gap contributes.
	// Zero means top relevance only.
	GapWeight float64
}

// Score implements ConfidencePolicy.
func (p TopWeighted) Score(results []domain.RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}
	top := results[0].RelevanceScore
	if len(results) == 1 || p.GapWeight <= 0 {
		return clamp01(top)
	}
	gap := top - results[1].RelevanceScore
	return clamp01(top + p.GapWeight*gap)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
