package handlers

import (
	"net/http"

	"github.com/cloo-solutions/lexora/internal/api"
	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/service"
)

type StatusService interface {
	State() service.State
	LLMAvailable() bool
	Documents() []*domain.Document
	ChunkCount() int
}

type StatusHandler struct {
	svc StatusService
}

func NewStatusHandler(svc StatusService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

type DocumentResponse struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	FileSize    int64  `json:"file_size"`
	LoadedAt    string `json:"loaded_at"`
}

func documentToResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:  d.ID,
		Filename:    d.Filename,
		ChunksCount: d.ChunkCount(),
		FileSize:    d.FileSize,
		LoadedAt:    d.LoadedAt.Format("2006-01-02T15:04:05Z"),
	}
}

type StatusResponse struct {
	SystemReady     bool               `json:"system_ready"`
	State           string             `json:"state"`
	LLMAvailable    bool               `json:"llm_available"`
	DocumentsCount  int                `json:"documents_count"`
	ChunksCount     int                `json:"chunks_count"`
	LoadedDocuments []DocumentResponse `json:"loaded_documents"`
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	docs := h.svc.Documents()
	loaded := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		loaded[i] = documentToResponse(d)
	}

	state := h.svc.State()

	api.Success(w, http.StatusOK, StatusResponse{
		SystemReady:     len(docs) > 0 && state != service.StateError,
		State:           string(state),
		LLMAvailable:    h.svc.LLMAvailable(),
		DocumentsCount:  len(docs),
		ChunksCount:     h.svc.ChunkCount(),
		LoadedDocuments: loaded,
	})
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, HealthResponse{Status: "ok"})
}
