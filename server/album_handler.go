package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"wavebox/logger"
	"wavebox/model"
	"wavebox/repository"
)

// GetAlbumsHandler lists active albums with optional search, genre and artist
// filters, newest release first.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AlbumFilter{
		Search:   q.Get("search"),
		GenreID:  parseID(q.Get("genre")),
		ArtistID: parseID(q.Get("artist")),
		Page:     repository.ParsePage(q),
	}

	albums, total, err := h.albumRepo.List(r.Context(), filter)
	if err != nil {
		logger.Error("[Albums] Failed to list albums", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving albums")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"albums":     albums,
		"pagination": newPagination(filter.Page.Page, filter.Page.Limit, total),
	})
}

// GetAlbumHandler returns a single album with its active tracks.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Album not found")
		return
	}

	album, err := h.albumRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Album not found")
			return
		}
		logger.Error("[Albums] Failed to get album", logger.Int64("albumId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving album")
		return
	}
	if !album.IsActive {
		respondError(w, http.StatusNotFound, "Album not found")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"album": album})
}

// GetAlbumsByArtistHandler lists an artist's active albums.
func (h *APIHandler) GetAlbumsByArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID, ok := pathID(r, "artistId")
	if !ok {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}

	albums, err := h.albumRepo.ListByArtist(r.Context(), artistID)
	if err != nil {
		logger.Error("[Albums] Failed to list artist albums", logger.Int64("artistId", artistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving albums")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"albums": albums})
}

// CreateAlbumHandler creates an album. Admin only.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		ArtistID    int64   `json:"artistId"`
		ReleaseDate string  `json:"releaseDate"`
		CoverURL    string  `json:"coverUrl"`
		Description string  `json:"description"`
		GenreIDs    []int64 `json:"genreIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "Album title is required")
		return
	}

	releaseDate := time.Now()
	if req.ReleaseDate != "" {
		parsed, err := parseDate(req.ReleaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid release date")
			return
		}
		releaseDate = parsed
	}

	album := &model.Album{
		Title:       req.Title,
		ReleaseDate: releaseDate,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		IsActive:    true,
		Genres:      genreRefs(req.GenreIDs),
	}
	if req.ArtistID > 0 {
		if _, err := h.artistRepo.GetByID(r.Context(), req.ArtistID); err != nil {
			respondError(w, http.StatusBadRequest, "Artist not found")
			return
		}
		album.ArtistID = &req.ArtistID
	}

	if err := h.albumRepo.Create(r.Context(), album); err != nil {
		logger.Error("[Albums] Failed to create album", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating album")
		return
	}

	logger.Info("[Albums] Album created", logger.Int64("albumId", album.ID), logger.String("title", album.Title))
	respondData(w, http.StatusCreated, map[string]interface{}{"album": album})
}

// UpdateAlbumHandler applies a partial update to an album. Admin only.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Album not found")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		ArtistID    *int64  `json:"artistId"`
		ReleaseDate *string `json:"releaseDate"`
		CoverURL    *string `json:"coverUrl"`
		Description *string `json:"description"`
		GenreIDs    []int64 `json:"genreIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	album, err := h.albumRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Album not found")
			return
		}
		logger.Error("[Albums] Failed to get album", logger.Int64("albumId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating album")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(w, http.StatusBadRequest, "Album title is required")
			return
		}
		album.Title = title
	}
	if req.ArtistID != nil {
		if *req.ArtistID > 0 {
			if _, err := h.artistRepo.GetByID(r.Context(), *req.ArtistID); err != nil {
				respondError(w, http.StatusBadRequest, "Artist not found")
				return
			}
			album.ArtistID = req.ArtistID
		} else {
			album.ArtistID = nil
		}
	}
	if req.ReleaseDate != nil {
		parsed, err := parseDate(*req.ReleaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid release date")
			return
		}
		album.ReleaseDate = parsed
	}
	if req.CoverURL != nil {
		album.CoverURL = *req.CoverURL
	}
	if req.Description != nil {
		album.Description = *req.Description
	}
	album.Genres = genreRefs(req.GenreIDs)
	album.Artist = nil
	album.Tracks = nil

	if err := h.albumRepo.Update(r.Context(), album); err != nil {
		logger.Error("[Albums] Failed to update album", logger.Int64("albumId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating album")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"album": album})
}

// DeleteAlbumHandler soft-deletes an album and detaches its tracks. Admin only.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Album not found")
		return
	}

	if err := h.albumRepo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Album not found")
			return
		}
		logger.Error("[Albums] Failed to delete album", logger.Int64("albumId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting album")
		return
	}

	logger.Info("[Albums] Album deleted", logger.Int64("albumId", id))
	respondMessage(w, http.StatusOK, "Album deleted successfully")
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
