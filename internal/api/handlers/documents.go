package handlers

import (
	"net/http"

	"github.com/cloo-solutions/lexora/internal/api"
	"github.com/cloo-solutions/lexora/internal/domain"
)

type DocumentService interface {
	Documents() []*domain.Document
	Reset()
}

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type DocumentListResponse struct {
	Documents      []DocumentResponse `json:"documents"`
	TotalDocuments int                `json:"total_documents"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs := h.svc.Documents()
	responses := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = documentToResponse(d)
	}

	api.Success(w, http.StatusOK, DocumentListResponse{
		Documents:      responses,
		TotalDocuments: len(responses),
	})
}

type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *DocumentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset()

	api.Success(w, http.StatusOK, ClearResponse{
		Success: true,
		Message: "all documents cleared",
	})
}
