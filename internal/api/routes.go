package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/denoise"
)

// NewRouter constructs the HTTP router with middleware and routes.
func NewRouter(cfg *config.Config, den denoise.Denoiser, store *denoise.FileStore, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	h := NewHandler(cfg, den, store, logger)

	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)

	r.Post("/denoise", h.HandleDenoise)
	r.Post("/denoise/upload", h.HandleDenoiseUpload)
	r.Get("/download/{file_id}", h.HandleDownload)

	r.Get("/models/info", h.HandleModelInfo)

	return r
}
