package server

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"wavebox/logger"
	"wavebox/storage"

	"github.com/gorilla/mux"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".ogg":  true,
	".m4a":  true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadTrackHandler stores an audio file and returns its public URL.
// Admin only.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.KindAudio, h.cfg.MaxAudioUploadBytes, audioExtensions, "Only audio files are allowed")
}

// UploadImageHandler stores a cover image and returns its public URL.
// Admin only.
func (h *APIHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.KindImage, h.cfg.MaxImageUploadBytes, imageExtensions, "Only image files are allowed")
}

func (h *APIHandler) upload(w http.ResponseWriter, r *http.Request, kind storage.Kind, maxBytes int64, allowed map[string]bool, typeError string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusBadRequest, "File too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowed[ext] {
		respondError(w, http.StatusBadRequest, typeError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := kind.Upload(r.Context(), header.Filename, file, header.Size, contentType)
	if err != nil {
		logger.Error("[Upload] Failed to store file",
			logger.String("filename", header.Filename), logger.String("kind", string(kind)), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error uploading file")
		return
	}

	logger.Info("[Upload] File stored",
		logger.String("key", result.Key), logger.Int64("bytes", result.Bytes), logger.String("kind", string(kind)))
	respondData(w, http.StatusCreated, map[string]interface{}{"upload": result})
}

// DeleteUploadHandler removes a stored object by key. Admin only.
func (h *APIHandler) DeleteUploadHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		respondError(w, http.StatusBadRequest, "Object key is required")
		return
	}

	if err := storage.Remove(r.Context(), key); err != nil {
		logger.Error("[Upload] Failed to remove file", logger.String("key", key), logger.ErrorField(err))
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	respondMessage(w, http.StatusOK, "File deleted successfully")
}
