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

// GetMoodsHandler lists active moods, optionally filtered by a search term.
func (h *APIHandler) GetMoodsHandler(w http.ResponseWriter, r *http.Request) {
	page := repository.ParsePage(r.URL.Query())
	search := r.URL.Query().Get("search")

	moods, total, err := h.moodRepo.List(r.Context(), search, page)
	if err != nil {
		logger.Error("[Moods] Failed to list moods", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving moods")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"moods":      moods,
		"pagination": newPagination(page.Page, page.Limit, total),
	})
}

// GetMoodHandler returns a single mood by id.
func (h *APIHandler) GetMoodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Mood not found")
		return
	}

	mood, err := h.moodRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Mood not found")
			return
		}
		logger.Error("[Moods] Failed to get mood", logger.Int64("moodId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving mood")
		return
	}
	if !mood.IsActive {
		respondError(w, http.StatusNotFound, "Mood not found")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"mood": mood})
}

// CreateMoodHandler creates a mood. Admin only.
func (h *APIHandler) CreateMoodHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Mood name is required")
		return
	}

	mood := &model.Mood{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    true,
	}
	if err := h.moodRepo.Create(r.Context(), mood); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Mood name already exists")
			return
		}
		logger.Error("[Moods] Failed to create mood", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating mood")
		return
	}

	logger.Info("[Moods] Mood created", logger.Int64("moodId", mood.ID), logger.String("name", mood.Name))
	respondData(w, http.StatusCreated, map[string]interface{}{"mood": mood})
}

// UpdateMoodHandler applies a partial update to a mood. Admin only.
func (h *APIHandler) UpdateMoodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Mood not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
		Icon        *string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mood, err := h.moodRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Mood not found")
			return
		}
		logger.Error("[Moods] Failed to get mood", logger.Int64("moodId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating mood")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "Mood name is required")
			return
		}
		mood.Name = name
	}
	if req.Description != nil {
		mood.Description = *req.Description
	}
	if req.Color != nil {
		mood.Color = *req.Color
	}
	if req.Icon != nil {
		mood.Icon = *req.Icon
	}

	if err := h.moodRepo.Update(r.Context(), mood); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Mood name already exists")
			return
		}
		logger.Error("[Moods] Failed to update mood", logger.Int64("moodId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating mood")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"mood": mood})
}

// DeleteMoodHandler soft-deletes a mood. Admin only.
func (h *APIHandler) DeleteMoodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Mood not found")
		return
	}

	if err := h.moodRepo.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Mood not found")
			return
		}
		logger.Error("[Moods] Failed to delete mood", logger.Int64("moodId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting mood")
		return
	}

	logger.Info("[Moods] Mood deleted", logger.Int64("moodId", id))
	respondMessage(w, http.StatusOK, "Mood deleted successfully")
}
