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

// GetGenresHandler lists active genres, optionally filtered by a search term.
func (h *APIHandler) GetGenresHandler(w http.ResponseWriter, r *http.Request) {
	page := repository.ParsePage(r.URL.Query())
	search := r.URL.Query().Get("search")

	genres, total, err := h.genreRepo.List(r.Context(), search, page)
	if err != nil {
		logger.Error("[Genres] Failed to list genres", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving genres")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"genres":     genres,
		"pagination": newPagination(page.Page, page.Limit, total),
	})
}

// GetGenreHandler returns a single genre by id.
func (h *APIHandler) GetGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Genre not found")
		return
	}

	genre, err := h.genreRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Genre not found")
			return
		}
		logger.Error("[Genres] Failed to get genre", logger.Int64("genreId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving genre")
		return
	}
	if !genre.IsActive {
		respondError(w, http.StatusNotFound, "Genre not found")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"genre": genre})
}

// CreateGenreHandler creates a genre. Admin only.
func (h *APIHandler) CreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Genre name is required")
		return
	}

	genre := &model.Genre{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
	}
	if err := h.genreRepo.Create(r.Context(), genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Genre name already exists")
			return
		}
		logger.Error("[Genres] Failed to create genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating genre")
		return
	}

	logger.Info("[Genres] Genre created", logger.Int64("genreId", genre.ID), logger.String("name", genre.Name))
	respondData(w, http.StatusCreated, map[string]interface{}{"genre": genre})
}

// UpdateGenreHandler applies a partial update to a genre. Admin only.
func (h *APIHandler) UpdateGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Genre not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	genre, err := h.genreRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Genre not found")
			return
		}
		logger.Error("[Genres] Failed to get genre", logger.Int64("genreId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating genre")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "Genre name is required")
			return
		}
		genre.Name = name
	}
	if req.Description != nil {
		genre.Description = *req.Description
	}
	if req.Color != nil {
		genre.Color = *req.Color
	}

	if err := h.genreRepo.Update(r.Context(), genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Genre name already exists")
			return
		}
		logger.Error("[Genres] Failed to update genre", logger.Int64("genreId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating genre")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"genre": genre})
}

// DeleteGenreHandler soft-deletes a genre. Admin only.
func (h *APIHandler) DeleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Genre not found")
		return
	}

	if err := h.genreRepo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Genre not found")
			return
		}
		logger.Error("[Genres] Failed to delete genre", logger.Int64("genreId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting genre")
		return
	}

	logger.Info("[Genres] Genre deleted", logger.Int64("genreId", id))
	respondMessage(w, http.StatusOK, "Genre deleted successfully")
}
