package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"wavebox/cache"
	"wavebox/logger"
	"wavebox/model"
	"wavebox/repository"
)

// moodRefs converts mood ids into association references for GORM.
func moodRefs(ids []int64) []*model.Mood {
	if ids == nil {
		return nil
	}
	moods := make([]*model.Mood, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			moods = append(moods, &model.Mood{ID: id})
		}
	}
	return moods
}

// GetTracksHandler lists active tracks with optional search, genre, mood and
// artist filters, newest first.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TrackFilter{
		Search:   q.Get("search"),
		GenreID:  parseID(q.Get("genre")),
		MoodID:   parseID(q.Get("mood")),
		ArtistID: parseID(q.Get("artist")),
		Page:     repository.ParsePage(q),
	}

	tracks, total, err := h.trackRepo.List(r.Context(), filter)
	if err != nil {
		logger.Error("[Tracks] Failed to list tracks", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving tracks")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"tracks":     tracks,
		"pagination": newPagination(filter.Page.Page, filter.Page.Limit, total),
	})
}

// GetTrackHandler returns a single track, served from the cache when possible.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if track, err := cache.GetTrack(r.Context(), id); err == nil {
		respondData(w, http.StatusOK, map[string]interface{}{"track": track})
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("[Tracks] Cache lookup failed", logger.Int64("trackId", id), logger.ErrorField(err))
	}

	track, err := h.trackRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Track not found")
			return
		}
		logger.Error("[Tracks] Failed to get track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving track")
		return
	}
	if !track.IsActive {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if err := cache.SetTrack(r.Context(), track); err != nil {
		logger.Warn("[Tracks] Failed to cache track", logger.Int64("trackId", id), logger.ErrorField(err))
	}

	respondData(w, http.StatusOK, map[string]interface{}{"track": track})
}

// SearchTracksHandler returns up to limit active tracks matching the query.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	tracks, err := h.trackRepo.Search(r.Context(), term, limit)
	if err != nil {
		logger.Error("[Tracks] Search failed", logger.String("query", term), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error searching tracks")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// CreateTrackHandler creates a track. Admin only.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string  `json:"title"`
		ArtistID int64   `json:"artistId"`
		AlbumID  int64   `json:"albumId"`
		Duration float64 `json:"duration"`
		FileURL  string  `json:"fileUrl"`
		CoverURL string  `json:"coverUrl"`
		Lyrics   string  `json:"lyrics"`
		GenreIDs []int64 `json:"genreIds"`
		MoodIDs  []int64 `json:"moodIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "Track title is required")
		return
	}
	if req.FileURL == "" {
		respondError(w, http.StatusBadRequest, "Track file URL is required")
		return
	}
	if req.Duration <= 0 {
		respondError(w, http.StatusBadRequest, "Track duration must be positive")
		return
	}

	track := &model.Track{
		Title:    req.Title,
		Duration: req.Duration,
		FileURL:  req.FileURL,
		CoverURL: req.CoverURL,
		Lyrics:   req.Lyrics,
		IsActive: true,
		Genres:   genreRefs(req.GenreIDs),
		Moods:    moodRefs(req.MoodIDs),
	}
	if req.ArtistID > 0 {
		if _, err := h.artistRepo.GetByID(r.Context(), req.ArtistID); err != nil {
			respondError(w, http.StatusBadRequest, "Artist not found")
			return
		}
		track.ArtistID = &req.ArtistID
	}
	if req.AlbumID > 0 {
		if _, err := h.albumRepo.GetByID(r.Context(), req.AlbumID); err != nil {
			respondError(w, http.StatusBadRequest, "Album not found")
			return
		}
		track.AlbumID = &req.AlbumID
	}

	if err := h.trackRepo.Create(r.Context(), track); err != nil {
		logger.Error("[Tracks] Failed to create track", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating track")
		return
	}

	logger.Info("[Tracks] Track created", logger.Int64("trackId", track.ID), logger.String("title", track.Title))
	respondData(w, http.StatusCreated, map[string]interface{}{"track": track})
}

// UpdateTrackHandler applies a partial update to a track. Admin only.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	var req struct {
		Title    *string  `json:"title"`
		ArtistID *int64   `json:"artistId"`
		AlbumID  *int64   `json:"albumId"`
		Duration *float64 `json:"duration"`
		FileURL  *string  `json:"fileUrl"`
		CoverURL *string  `json:"coverUrl"`
		Lyrics   *string  `json:"lyrics"`
		GenreIDs []int64  `json:"genreIds"`
		MoodIDs  []int64  `json:"moodIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	track, err := h.trackRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Track not found")
			return
		}
		logger.Error("[Tracks] Failed to get track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating track")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(w, http.StatusBadRequest, "Track title is required")
			return
		}
		track.Title = title
	}
	if req.ArtistID != nil {
		if *req.ArtistID > 0 {
			if _, err := h.artistRepo.GetByID(r.Context(), *req.ArtistID); err != nil {
				respondError(w, http.StatusBadRequest, "Artist not found")
				return
			}
			track.ArtistID = req.ArtistID
		} else {
			track.ArtistID = nil
		}
	}
	if req.AlbumID != nil {
		if *req.AlbumID > 0 {
			if _, err := h.albumRepo.GetByID(r.Context(), *req.AlbumID); err != nil {
				respondError(w, http.StatusBadRequest, "Album not found")
				return
			}
			track.AlbumID = req.AlbumID
		} else {
			track.AlbumID = nil
		}
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			respondError(w, http.StatusBadRequest, "Track duration must be positive")
			return
		}
		track.Duration = *req.Duration
	}
	if req.FileURL != nil && *req.FileURL != "" {
		track.FileURL = *req.FileURL
	}
	if req.CoverURL != nil {
		track.CoverURL = *req.CoverURL
	}
	if req.Lyrics != nil {
		track.Lyrics = *req.Lyrics
	}
	track.Genres = genreRefs(req.GenreIDs)
	track.Moods = moodRefs(req.MoodIDs)
	track.Artist = nil
	track.Album = nil

	if err := h.trackRepo.Update(r.Context(), track); err != nil {
		logger.Error("[Tracks] Failed to update track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating track")
		return
	}

	if err := cache.InvalidateTrack(r.Context(), id); err != nil {
		logger.Warn("[Tracks] Failed to invalidate cached track", logger.Int64("trackId", id), logger.ErrorField(err))
	}

	respondData(w, http.StatusOK, map[string]interface{}{"track": track})
}

// DeleteTrackHandler soft-deletes a track. Admin only.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if err := h.trackRepo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Track not found")
			return
		}
		logger.Error("[Tracks] Failed to delete track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting track")
		return
	}

	if err := cache.InvalidateTrack(r.Context(), id); err != nil {
		logger.Warn("[Tracks] Failed to invalidate cached track", logger.Int64("trackId", id), logger.ErrorField(err))
	}

	logger.Info("[Tracks] Track deleted", logger.Int64("trackId", id))
	respondMessage(w, http.StatusOK, "Track deleted successfully")
}

// PlayTrackHandler bumps the play counter and records a history entry for the
// caller carrying the session data from the request body. The body is optional;
// an absent body records a zero-duration, uncompleted play.
func (h *APIHandler) PlayTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		Duration  float64 `json:"duration"`
		Completed bool    `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Duration < 0 {
		respondError(w, http.StatusBadRequest, "Duration must not be negative")
		return
	}

	track, err := h.trackRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Track not found")
			return
		}
		logger.Error("[Tracks] Failed to get track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error recording play")
		return
	}
	if !track.IsActive {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if err := h.trackRepo.IncrementPlayCount(r.Context(), id); err != nil {
		logger.Error("[Tracks] Failed to increment play count", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error recording play")
		return
	}

	entry := &model.PlayHistory{
		UserID:    userID,
		TrackID:   id,
		Duration:  req.Duration,
		Completed: req.Completed,
	}
	if err := h.historyRepo.Record(r.Context(), entry); err != nil {
		logger.Error("[Tracks] Failed to record play history", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error recording play")
		return
	}

	if err := cache.InvalidateTrack(r.Context(), id); err != nil {
		logger.Warn("[Tracks] Failed to invalidate cached track", logger.Int64("trackId", id), logger.ErrorField(err))
	}

	respondData(w, http.StatusCreated, map[string]interface{}{
		"entry":     entry,
		"playCount": track.PlayCount + 1,
	})
}
