package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"wavebox/logger"
	"wavebox/model"
	"wavebox/repository"
)

// genreRefs converts genre ids into association references for GORM.
func genreRefs(ids []int64) []*model.Genre {
	if ids == nil {
		return nil
	}
	genres := make([]*model.Genre, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			genres = append(genres, &model.Genre{ID: id})
		}
	}
	return genres
}

// GetArtistsHandler lists active artists with optional search, genre and
// verified filters.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ArtistFilter{
		Search:       q.Get("search"),
		GenreID:      parseID(q.Get("genre")),
		VerifiedOnly: q.Get("verified") == "true",
		Page:         repository.ParsePage(q),
	}

	artists, total, err := h.artistRepo.List(r.Context(), filter)
	if err != nil {
		logger.Error("[Artists] Failed to list artists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving artists")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"artists":    artists,
		"pagination": newPagination(filter.Page.Page, filter.Page.Limit, total),
	})
}

// GetArtistHandler returns a single artist with their active albums.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}

	artist, err := h.artistRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Artist not found")
			return
		}
		logger.Error("[Artists] Failed to get artist", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving artist")
		return
	}
	if !artist.IsActive {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}

	albums, err := h.albumRepo.ListByArtist(r.Context(), id)
	if err != nil {
		logger.Error("[Artists] Failed to load artist albums", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving artist")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"artist": artist,
		"albums": albums,
	})
}

// CreateArtistHandler creates an artist. Admin only.
func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		Bio        string  `json:"bio"`
		ImageURL   string  `json:"imageUrl"`
		IsVerified bool    `json:"isVerified"`
		GenreIDs   []int64 `json:"genreIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Artist name is required")
		return
	}

	artist := &model.Artist{
		Name:       req.Name,
		Bio:        req.Bio,
		ImageURL:   req.ImageURL,
		IsVerified: req.IsVerified,
		IsActive:   true,
		Genres:     genreRefs(req.GenreIDs),
	}
	if err := h.artistRepo.Create(r.Context(), artist); err != nil {
		logger.Error("[Artists] Failed to create artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating artist")
		return
	}

	logger.Info("[Artists] Artist created", logger.Int64("artistId", artist.ID), logger.String("name", artist.Name))
	respondData(w, http.StatusCreated, map[string]interface{}{"artist": artist})
}

// UpdateArtistHandler applies a partial update to an artist. Admin only.
func (h *APIHandler) UpdateArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}

	var req struct {
		Name             *string  `json:"name"`
		Bio              *string  `json:"bio"`
		ImageURL         *string  `json:"imageUrl"`
		MonthlyListeners *int64   `json:"monthlyListeners"`
		IsVerified       *bool    `json:"isVerified"`
		GenreIDs         []int64  `json:"genreIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	artist, err := h.artistRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Artist not found")
			return
		}
		logger.Error("[Artists] Failed to get artist", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating artist")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "Artist name is required")
			return
		}
		artist.Name = name
	}
	if req.Bio != nil {
		artist.Bio = *req.Bio
	}
	if req.ImageURL != nil {
		artist.ImageURL = *req.ImageURL
	}
	if req.MonthlyListeners != nil {
		artist.MonthlyListeners = *req.MonthlyListeners
	}
	if req.IsVerified != nil {
		artist.IsVerified = *req.IsVerified
	}
	artist.Genres = genreRefs(req.GenreIDs)

	if err := h.artistRepo.Update(r.Context(), artist); err != nil {
		logger.Error("[Artists] Failed to update artist", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating artist")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"artist": artist})
}

// DeleteArtistHandler soft-deletes an artist and detaches its tracks and
// albums. Admin only.
func (h *APIHandler) DeleteArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}

	if err := h.artistRepo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Artist not found")
			return
		}
		logger.Error("[Artists] Failed to delete artist", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting artist")
		return
	}

	logger.Info("[Artists] Artist deleted", logger.Int64("artistId", id))
	respondMessage(w, http.StatusOK, "Artist deleted successfully")
}

// FollowArtistHandler records the authenticated user as a follower.
func (h *APIHandler) FollowArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.artistRepo.Follow(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, http.StatusNotFound, "Artist not found")
		case errors.Is(err, repository.ErrDuplicate):
			respondError(w, http.StatusBadRequest, "Already following this artist")
		default:
			logger.Error("[Artists] Failed to follow artist", logger.Int64("artistId", id), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Server error following artist")
		}
		return
	}

	respondMessage(w, http.StatusOK, "Artist followed successfully")
}

// UnfollowArtistHandler removes the authenticated user from the followers.
func (h *APIHandler) UnfollowArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.artistRepo.Unfollow(r.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "Not following this artist")
			return
		}
		logger.Error("[Artists] Failed to unfollow artist", logger.Int64("artistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error unfollowing artist")
		return
	}

	respondMessage(w, http.StatusOK, "Artist unfollowed successfully")
}

// GetFollowedArtistsHandler lists the artists the authenticated user follows.
func (h *APIHandler) GetFollowedArtistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	artists, err := h.artistRepo.ListFollowed(r.Context(), userID)
	if err != nil {
		logger.Error("[Artists] Failed to list followed artists", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving followed artists")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"artists": artists})
}
