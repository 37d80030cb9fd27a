package server

import (
	"net/http"

	"github.com/cloo-solutions/lexora/internal/api"
	"github.com/cloo-solutions/lexora/internal/api/handlers"
	"github.com/cloo-solutions/lexora/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	UploadHandler   *handlers.UploadHandler
	AskHandler      *handlers.AskHandler
	StatusHandler   *handlers.StatusHandler
	DocumentHandler *handlers.DocumentHandler
	MaxBodyBytes    int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 * 1024 * 1024
	}
	// Multipart framing adds overhead on top of the file itself.
	maxBodyBytes += 64 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", cfg.StatusHandler.Status)
	r.Post("/upload", cfg.UploadHandler.Upload)
	r.Post("/ask", cfg.AskHandler.Ask)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", cfg.DocumentHandler.List)
		r.Delete("/", cfg.DocumentHandler.Clear)
	})

	return r
}
