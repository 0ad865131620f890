package server

import (
	"net/http"
	"strconv"

	"wavebox/config"
	"wavebox/repository"

	"github.com/gorilla/mux"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo     repository.UserRepository
	artistRepo   repository.ArtistRepository
	albumRepo    repository.AlbumRepository
	trackRepo    repository.TrackRepository
	genreRepo    repository.GenreRepository
	moodRepo     repository.MoodRepository
	playlistRepo repository.PlaylistRepository
	favoriteRepo repository.FavoriteRepository
	historyRepo  repository.PlayHistoryRepository
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	artistRepo repository.ArtistRepository,
	albumRepo repository.AlbumRepository,
	trackRepo repository.TrackRepository,
	genreRepo repository.GenreRepository,
	moodRepo repository.MoodRepository,
	playlistRepo repository.PlaylistRepository,
	favoriteRepo repository.FavoriteRepository,
	historyRepo repository.PlayHistoryRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		artistRepo:   artistRepo,
		albumRepo:    albumRepo,
		trackRepo:    trackRepo,
		genreRepo:    genreRepo,
		moodRepo:     moodRepo,
		playlistRepo: playlistRepo,
		favoriteRepo: favoriteRepo,
		historyRepo:  historyRepo,
		cfg:          cfg,
	}
}

// pathID extracts a numeric path variable. ok is false when the variable is
// missing or not a number; callers respond 404 in that case since the path
// cannot name an existing resource.
func pathID(r *http.Request, name string) (int64, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseID parses a numeric id from a request value such as a JSON field that
// arrives as a string.
func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
