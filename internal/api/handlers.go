package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/denoise"
	"github.com/denoise-go/denoise-go/internal/schema"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// Handler serves the denoising REST contract.
type Handler struct {
	cfg    *config.Config
	den    denoise.Denoiser
	store  *denoise.FileStore
	logger zerolog.Logger
	start  time.Time
}

// NewHandler creates the API handler set.
func NewHandler(cfg *config.Config, den denoise.Denoiser, store *denoise.FileStore, logger zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, den: den, store: store, logger: logger, start: time.Now()}
}

// HandleRoot serves the service banner.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, schema.RootResponse{
		Message: "audio denoise API service",
		Version: Version,
		Health:  "/health",
	})
}

// HandleHealth serves the health check.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, schema.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		Uptime:      time.Since(h.start).Seconds(),
	})
}

// HandleModelInfo reports the shape of the inference session the real
// service exposes. The simulator answers with canned values.
func (h *Handler) HandleModelInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, schema.ModelInfoResponse{
		ModelLoaded: true,
		Providers:   []string{"CPUExecutionProvider"},
		InputNames:  []string{"mix", "conv_cache", "tra_cache", "inter_cache"},
		OutputNames: []string{"enhanced", "conv_cache", "tra_cache", "inter_cache"},
	})
}

// HandleDenoise processes a reference-by-path request.
func (h *Handler) HandleDenoise(w http.ResponseWriter, r *http.Request) {
	req, err := ParseDenoiseRequest(r)
	if err != nil {
		if httpErr, ok := IsHTTPError(err); ok {
			WriteError(w, httpErr.Status, httpErr.Message)
			return
		}
		WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if _, err := os.Stat(req.InputFile); err != nil {
		WriteError(w, http.StatusNotFound, "input file does not exist: "+req.InputFile)
		return
	}

	start := time.Now()
	if err := h.den.Denoise(r.Context(), req.InputFile, req.OutputFile, req.Samplerate); err != nil {
		WriteError(w, http.StatusInternalServerError, "denoise failed: "+err.Error())
		return
	}
	elapsed := time.Since(start)

	resp := schema.DenoiseResponse{
		Success:        true,
		Message:        "denoise complete",
		InputFile:      req.InputFile,
		OutputFile:     req.OutputFile,
		ProcessingTime: elapsed.Seconds(),
	}
	if info, err := os.Stat(req.OutputFile); err == nil {
		size := info.Size()
		resp.FileSize = &size
	}

	h.logger.Info().
		Str("input", req.InputFile).
		Str("output", req.OutputFile).
		Dur("elapsed", elapsed).
		Msg("Denoise complete")

	WriteJSON(w, http.StatusOK, resp)
}

// HandleDenoiseUpload processes an upload-by-content request. The staged
// output is kept for download; the staged input is removed afterwards.
func (h *Handler) HandleDenoiseUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.cfg.Limits.MaxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !schema.IsSupportedAudio(header.Filename) {
		WriteError(w, http.StatusBadRequest, "unsupported file format, upload WAV, MP3, FLAC or M4A")
		return
	}

	samplerate := schema.DefaultSamplerate
	if v := r.FormValue("samplerate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "samplerate must be a positive integer")
			return
		}
		samplerate = n
	}

	inputPath, outputPath, err := h.store.StageUpload(header.Filename, file)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer func() {
		if err := h.store.Remove(inputPath); err != nil {
			h.logger.Warn().Err(err).Str("path", inputPath).Msg("Failed to clean staged input")
		}
	}()

	start := time.Now()
	if err := h.den.Denoise(r.Context(), inputPath, outputPath, samplerate); err != nil {
		_ = h.store.Remove(outputPath)
		WriteError(w, http.StatusInternalServerError, "denoise failed: "+err.Error())
		return
	}
	elapsed := time.Since(start)

	resp := schema.DenoiseResponse{
		Success:        true,
		Message:        "denoise complete",
		InputFile:      header.Filename,
		OutputFile:     outputPath,
		ProcessingTime: elapsed.Seconds(),
	}
	if info, err := os.Stat(outputPath); err == nil {
		size := info.Size()
		resp.FileSize = &size
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Dur("elapsed", elapsed).
		Msg("Upload denoise complete")

	WriteJSON(w, http.StatusOK, resp)
}

// HandleDownload serves a processed file by id.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")

	path, err := h.store.Resolve(fileID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", AudioContentType(path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(path)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}
