package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wavebox/logger"
	"wavebox/model"
	"wavebox/repository"
)

// RecordPlayHandler appends a play to the caller's history. Repeat plays of
// the same track are separate entries.
func (h *APIHandler) RecordPlayHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		TrackID   int64   `json:"trackId"`
		Duration  float64 `json:"duration"`
		Completed bool    `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TrackID < 1 {
		respondError(w, http.StatusBadRequest, "Track ID is required")
		return
	}

	track, err := h.trackRepo.GetByID(r.Context(), req.TrackID)
	if err != nil || !track.IsActive {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	entry := &model.PlayHistory{
		UserID:    userID,
		TrackID:   req.TrackID,
		Duration:  req.Duration,
		Completed: req.Completed,
	}
	if err := h.historyRepo.Record(r.Context(), entry); err != nil {
		logger.Error("[History] Failed to record play",
			logger.Int64("userId", userID), logger.Int64("trackId", req.TrackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error recording play")
		return
	}

	if err := h.trackRepo.IncrementPlayCount(r.Context(), req.TrackID); err != nil {
		logger.Warn("[History] Failed to increment play count", logger.Int64("trackId", req.TrackID), logger.ErrorField(err))
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// GetPlayHistoryHandler lists the caller's history, most recent play first.
func (h *APIHandler) GetPlayHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	page := repository.ParsePage(r.URL.Query())
	entries, total, err := h.historyRepo.List(r.Context(), userID, page)
	if err != nil {
		logger.Error("[History] Failed to list play history", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving play history")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"history":    entries,
		"pagination": newPagination(page.Page, page.Limit, total),
	})
}

// GetRecentTracksHandler returns the caller's most recently played distinct
// tracks with per-track play counts.
func (h *APIHandler) GetRecentTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	recent, err := h.historyRepo.Recent(r.Context(), userID, limit)
	if err != nil {
		logger.Error("[History] Failed to load recent tracks", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving recent tracks")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"tracks": recent})
}

// GetListeningStatsHandler aggregates the caller's whole history.
func (h *APIHandler) GetListeningStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	stats, err := h.historyRepo.Stats(r.Context(), userID)
	if err != nil {
		logger.Error("[History] Failed to load listening stats", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving listening stats")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// DeletePlayHistoryEntryHandler removes one entry from the caller's history.
func (h *APIHandler) DeletePlayHistoryEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Play history entry not found")
		return
	}

	entry, err := h.historyRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Play history entry not found")
			return
		}
		logger.Error("[History] Failed to get play history entry", logger.Int64("entryId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting play history entry")
		return
	}
	if entry.UserID != userID {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := h.historyRepo.Delete(r.Context(), id); err != nil {
		logger.Error("[History] Failed to delete play history entry", logger.Int64("entryId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting play history entry")
		return
	}

	respondMessage(w, http.StatusOK, "Play history entry deleted")
}

// ClearPlayHistoryHandler removes the caller's entire history.
func (h *APIHandler) ClearPlayHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.historyRepo.Clear(r.Context(), userID); err != nil {
		logger.Error("[History] Failed to clear play history", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error clearing play history")
		return
	}

	respondMessage(w, http.StatusOK, "Play history cleared")
}
