package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"wavebox/logger"
	"wavebox/repository"
)

// GetFavoritesHandler lists the caller's favorite tracks, newest first.
func (h *APIHandler) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	page := repository.ParsePage(r.URL.Query())
	favorites, total, err := h.favoriteRepo.List(r.Context(), userID, page)
	if err != nil {
		logger.Error("[Favorites] Failed to list favorites", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving favorites")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"favorites":  favorites,
		"pagination": newPagination(page.Page, page.Limit, total),
	})
}

// AddFavoriteHandler favorites a track for the caller.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		TrackID int64 `json:"trackId"`
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

	favorite, err := h.favoriteRepo.Add(r.Context(), userID, req.TrackID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Track already in favorites")
			return
		}
		logger.Error("[Favorites] Failed to add favorite",
			logger.Int64("userId", userID), logger.Int64("trackId", req.TrackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error adding favorite")
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"favorite": favorite})
}

// RemoveFavoriteHandler unfavorites a track for the caller.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	trackID, ok := pathID(r, "trackId")
	if !ok {
		respondError(w, http.StatusNotFound, "Favorite not found")
		return
	}

	if err := h.favoriteRepo.Remove(r.Context(), userID, trackID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Favorite not found")
			return
		}
		logger.Error("[Favorites] Failed to remove favorite",
			logger.Int64("userId", userID), logger.Int64("trackId", trackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error removing favorite")
		return
	}

	respondMessage(w, http.StatusOK, "Track removed from favorites")
}

// CheckFavoriteHandler reports whether the caller has favorited the track.
func (h *APIHandler) CheckFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	trackID, ok := pathID(r, "trackId")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	exists, err := h.favoriteRepo.Exists(r.Context(), userID, trackID)
	if err != nil {
		logger.Error("[Favorites] Failed to check favorite",
			logger.Int64("userId", userID), logger.Int64("trackId", trackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error checking favorite")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"isFavorite": exists})
}
