package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/lexora/internal/api"
	"github.com/cloo-solutions/lexora/internal/domain"
)

type AskService interface {
	Ask(ctx context.Context, q domain.Query) (*domain.Answer, error)
}

type AskHandler struct {
	svc AskService
}

func NewAskHandler(svc AskService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type SourceResponse struct {
	ChunkID        string  `json:"chunk_id"`
	RelevanceScore float64 `json:"relevance_score"`
	ContentPreview string  `json:"content_preview"`
}

type PerformanceResponse struct {
	EmbeddingTimeSeconds  float64 `json:"embedding_time_seconds"`
	SearchTimeSeconds     float64 `json:"search_time_seconds"`
	GenerationTimeSeconds float64 `json:"generation_time_seconds"`
	TotalTimeSeconds      float64 `json:"total_time_seconds"`
}

type AskResponse struct {
	Answer      string              `json:"answer"`
	Confidence  float64             `json:"confidence"`
	Sources     []SourceResponse    `json:"sources"`
	Performance PerformanceResponse `json:"performance"`
}

func answerToResponse(a *domain.Answer) *AskResponse {
	sources := make([]SourceResponse, len(a.Sources))
	for i, s := range a.Sources {
		sources[i] = SourceResponse{
			ChunkID:        s.ChunkID,
			RelevanceScore: s.RelevanceScore,
			ContentPreview: s.ContentPreview,
		}
	}

	return &AskResponse{
		Answer:     a.Text,
		Confidence: a.Confidence,
		Sources:    sources,
		Performance: PerformanceResponse{
			EmbeddingTimeSeconds:  a.Performance.EmbeddingSeconds,
			SearchTimeSeconds:     a.Performance.SearchSeconds,
			GenerationTimeSeconds: a.Performance.GenerationSeconds,
			TotalTimeSeconds:      a.Performance.TotalSeconds,
		},
	}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TopK == 0 {
		req.TopK = domain.DefaultTopK
	}

	answer, err := h.svc.Ask(r.Context(), domain.Query{
		Question: req.Question,
		TopK:     req.TopK,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, answerToResponse(answer))
}
