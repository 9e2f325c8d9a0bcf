package handler

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"versekeep/internal/domain/services"
	"versekeep/internal/httputil"
)

const maxUploadSize = 25 << 20 // 25 MB

// AudioHandler handles audio and image upload requests
type AudioHandler struct {
	audioService services.AudioService
	logger       *slog.Logger
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(audioService services.AudioService, logger *slog.Logger) *AudioHandler {
	return &AudioHandler{
		audioService: audioService,
		logger:       logger,
	}
}

// UploadAudio stores a recording on an entry and starts transcription
// POST /api/entries/{id}/audio
func (h *AudioHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	data, filename, ok := h.readUpload(w, r, "audio")
	if !ok {
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")

	result, err := h.audioService.UploadAudio(r.Context(), id, userID, data, ext)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// UploadImage stores an image on an entry
// POST /api/entries/{id}/image
func (h *AudioHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	data, filename, ok := h.readUpload(w, r, "image")
	if !ok {
		return
	}

	contentType := mimeFromFilename(filename)

	entry, err := h.audioService.UploadImage(r.Context(), id, userID, data, contentType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// SynthesizeEntry starts background speech synthesis of an entry
// POST /api/entries/{id}/speech
func (h *AudioHandler) SynthesizeEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	taskID, err := h.audioService.SynthesizeEntry(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, map[string]string{
		"task_id": taskID,
	})
}

// readUpload pulls the named multipart file out of the request
func (h *AudioHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, field+" file is required")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "field", field, "error", err)
		httputil.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return nil, "", false
	}

	return data, header.Filename, true
}

func mimeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
