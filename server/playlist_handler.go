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

// GetPlaylistsHandler lists visible playlists: public ones, plus the caller's
// own when authenticated.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.PlaylistFilter{
		ViewerID:     viewerID(r.Context()),
		Search:       q.Get("search"),
		FeaturedOnly: q.Get("featured") == "true",
		Page:         repository.ParsePage(q),
	}

	playlists, total, err := h.playlistRepo.List(r.Context(), filter)
	if err != nil {
		logger.Error("[Playlists] Failed to list playlists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving playlists")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"playlists":  playlists,
		"pagination": newPagination(filter.Page.Page, filter.Page.Limit, total),
	})
}

// GetPlaylistHandler returns a playlist with its tracks in playlist order.
// Private playlists are only visible to their owner.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	playlist, err := h.playlistRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Playlist not found")
			return
		}
		logger.Error("[Playlists] Failed to get playlist", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving playlist")
		return
	}

	if !playlist.IsPublic {
		viewer := viewerID(r.Context())
		if viewer == nil || *viewer != playlist.UserID {
			respondError(w, http.StatusForbidden, "Access denied")
			return
		}
	}

	tracks, err := h.playlistRepo.GetTracks(r.Context(), id)
	if err != nil {
		logger.Error("[Playlists] Failed to load playlist tracks", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving playlist")
		return
	}
	playlist.Tracks = tracks

	respondData(w, http.StatusOK, map[string]interface{}{"playlist": playlist})
}

// GetUserPlaylistsHandler lists a user's playlists. Owners see all of theirs,
// everyone else only the public ones.
func (h *APIHandler) GetUserPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(r, "userId")
	if !ok {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	viewer := viewerID(r.Context())
	publicOnly := viewer == nil || *viewer != ownerID

	playlists, err := h.playlistRepo.ListByUser(r.Context(), ownerID, publicOnly)
	if err != nil {
		logger.Error("[Playlists] Failed to list user playlists", logger.Int64("userId", ownerID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving playlists")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

// CreatePlaylistHandler creates a playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CoverURL    string `json:"coverUrl"`
		IsPublic    bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist := &model.Playlist{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublic:    req.IsPublic,
		UserID:      userID,
	}
	if err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		logger.Error("[Playlists] Failed to create playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error creating playlist")
		return
	}

	logger.Info("[Playlists] Playlist created", logger.Int64("playlistId", playlist.ID), logger.Int64("userId", userID))
	respondData(w, http.StatusCreated, map[string]interface{}{"playlist": playlist})
}

// ownedPlaylist loads the playlist and enforces that the caller owns it.
// The bool result tells the caller whether a response has been written.
func (h *APIHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request) (*model.Playlist, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return nil, false
	}
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return nil, false
	}

	playlist, err := h.playlistRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Playlist not found")
			return nil, false
		}
		logger.Error("[Playlists] Failed to get playlist", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error retrieving playlist")
		return nil, false
	}

	if playlist.UserID != userID {
		respondError(w, http.StatusForbidden, "Not authorized to update this playlist")
		return nil, false
	}
	return playlist, true
}

// UpdatePlaylistHandler applies a partial update. Owner only.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		CoverURL    *string `json:"coverUrl"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "Playlist name is required")
			return
		}
		playlist.Name = name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.CoverURL != nil {
		playlist.CoverURL = *req.CoverURL
	}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}
	playlist.User = nil

	if err := h.playlistRepo.Update(r.Context(), playlist); err != nil {
		logger.Error("[Playlists] Failed to update playlist", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating playlist")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"playlist": playlist})
}

// DeletePlaylistHandler removes a playlist and its track links. Owner only.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.playlistRepo.Delete(r.Context(), playlist.ID); err != nil {
		logger.Error("[Playlists] Failed to delete playlist", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error deleting playlist")
		return
	}

	logger.Info("[Playlists] Playlist deleted", logger.Int64("playlistId", playlist.ID))
	respondMessage(w, http.StatusOK, "Playlist deleted successfully")
}

// AddTrackToPlaylistHandler appends a track to the playlist. Owner only.
func (h *APIHandler) AddTrackToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
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

	if err := h.playlistRepo.AddTrack(r.Context(), playlist.ID, req.TrackID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusBadRequest, "Track already in playlist")
			return
		}
		logger.Error("[Playlists] Failed to add track",
			logger.Int64("playlistId", playlist.ID), logger.Int64("trackId", req.TrackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating playlist")
		return
	}

	respondMessage(w, http.StatusOK, "Track added to playlist")
}

// RemoveTrackFromPlaylistHandler removes a track from the playlist. Owner only.
func (h *APIHandler) RemoveTrackFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	trackID, ok := pathID(r, "trackId")
	if !ok {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if err := h.playlistRepo.RemoveTrack(r.Context(), playlist.ID, trackID); err != nil {
		logger.Error("[Playlists] Failed to remove track",
			logger.Int64("playlistId", playlist.ID), logger.Int64("trackId", trackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Server error updating playlist")
		return
	}

	respondMessage(w, http.StatusOK, "Track removed from playlist")
}
