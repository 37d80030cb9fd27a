package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloo-solutions/lexora/internal/api"
	"github.com/cloo-solutions/lexora/internal/domain"
	"github.com/cloo-solutions/lexora/internal/extractor"
	"github.com/cloo-solutions/lexora/internal/service"
)

type UploadService interface {
	Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error)
}

type UploadHandler struct {
	svc      UploadService
	maxBytes int64
}

func NewUploadHandler(svc UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

type UploadResponse struct {
	Success     bool   `json:"success"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	Message     string `json:"message"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}

	format, err := extractor.FormatForFilename(header.Filename)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		api.Error(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Error(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	doc, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Filename: header.Filename,
		Format:   format,
		Data:     data,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, UploadResponse{
		Success:     true,
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		ChunksCount: doc.ChunkCount(),
		Message:     fmt.Sprintf("document processed into %d chunks", doc.ChunkCount()),
	})
}
