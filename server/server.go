package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wavebox/cache"
	"wavebox/config"
	"wavebox/core/auth"
	"wavebox/db"
	"wavebox/logger"
	"wavebox/repository"
	"wavebox/storage"

	"github.com/gorilla/mux"
)

// Start wires the application together and runs the HTTP server until it
// receives SIGINT or SIGTERM.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.Init(cfg.JWTSecret, cfg.JWTExpiry)

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := cache.ConnectRedis(cfg); err != nil {
		// The API degrades without redis (no cache, no rate limit) but stays up.
		logger.Warn("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	handler := NewAPIHandler(
		repository.NewUserRepository(db.GormDB),
		repository.NewArtistRepository(db.GormDB),
		repository.NewAlbumRepository(db.GormDB),
		repository.NewTrackRepository(db.GormDB),
		repository.NewGenreRepository(db.GormDB),
		repository.NewMoodRepository(db.GormDB),
		repository.NewPlaylistRepository(db.GormDB),
		repository.NewFavoriteRepository(db.GormDB),
		repository.NewPlayHistoryRepository(db.GormDB, db.DB),
		cfg,
	)

	router := newRouter(handler)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}

// newRouter builds the API route table.
func newRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(h.CORSMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.RateLimitMiddleware)

	api.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	// Auth
	api.HandleFunc("/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/profile", h.AuthMiddleware(h.GetProfileHandler)).Methods(http.MethodGet)
	api.HandleFunc("/auth/profile", h.AuthMiddleware(h.UpdateProfileHandler)).Methods(http.MethodPut)
	api.HandleFunc("/auth/change-password", h.AuthMiddleware(h.ChangePasswordHandler)).Methods(http.MethodPut)

	// Genres
	api.HandleFunc("/genres", h.GetGenresHandler).Methods(http.MethodGet)
	api.HandleFunc("/genres", h.AuthMiddleware(h.AdminOnly(h.CreateGenreHandler))).Methods(http.MethodPost)
	api.HandleFunc("/genres/{id}", h.GetGenreHandler).Methods(http.MethodGet)
	api.HandleFunc("/genres/{id}", h.AuthMiddleware(h.AdminOnly(h.UpdateGenreHandler))).Methods(http.MethodPut)
	api.HandleFunc("/genres/{id}", h.AuthMiddleware(h.AdminOnly(h.DeleteGenreHandler))).Methods(http.MethodDelete)

	// Moods
	api.HandleFunc("/moods", h.GetMoodsHandler).Methods(http.MethodGet)
	api.HandleFunc("/moods", h.AuthMiddleware(h.AdminOnly(h.CreateMoodHandler))).Methods(http.MethodPost)
	api.HandleFunc("/moods/{id}", h.GetMoodHandler).Methods(http.MethodGet)
	api.HandleFunc("/moods/{id}", h.AuthMiddleware(h.AdminOnly(h.UpdateMoodHandler))).Methods(http.MethodPut)
	api.HandleFunc("/moods/{id}", h.AuthMiddleware(h.AdminOnly(h.DeleteMoodHandler))).Methods(http.MethodDelete)

	// Artists. The fixed "followed" path is registered before the id match.
	api.HandleFunc("/artists", h.GetArtistsHandler).Methods(http.MethodGet)
	api.HandleFunc("/artists", h.AuthMiddleware(h.AdminOnly(h.CreateArtistHandler))).Methods(http.MethodPost)
	api.HandleFunc("/artists/followed", h.AuthMiddleware(h.GetFollowedArtistsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id}", h.GetArtistHandler).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id}", h.AuthMiddleware(h.AdminOnly(h.UpdateArtistHandler))).Methods(http.MethodPut)
	api.HandleFunc("/artists/{id}", h.AuthMiddleware(h.AdminOnly(h.DeleteArtistHandler))).Methods(http.MethodDelete)
	api.HandleFunc("/artists/{id}/follow", h.AuthMiddleware(h.FollowArtistHandler)).Methods(http.MethodPost)
	api.HandleFunc("/artists/{id}/follow", h.AuthMiddleware(h.UnfollowArtistHandler)).Methods(http.MethodDelete)

	// Albums
	api.HandleFunc("/albums", h.GetAlbumsHandler).Methods(http.MethodGet)
	api.HandleFunc("/albums", h.AuthMiddleware(h.AdminOnly(h.CreateAlbumHandler))).Methods(http.MethodPost)
	api.HandleFunc("/albums/artist/{artistId}", h.GetAlbumsByArtistHandler).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id}", h.AuthMiddleware(h.AdminOnly(h.UpdateAlbumHandler))).Methods(http.MethodPut)
	api.HandleFunc("/albums/{id}", h.AuthMiddleware(h.AdminOnly(h.DeleteAlbumHandler))).Methods(http.MethodDelete)

	// Tracks
	api.HandleFunc("/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks", h.AuthMiddleware(h.AdminOnly(h.CreateTrackHandler))).Methods(http.MethodPost)
	api.HandleFunc("/tracks/search", h.SearchTracksHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id}", h.GetTrackHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id}", h.AuthMiddleware(h.AdminOnly(h.UpdateTrackHandler))).Methods(http.MethodPut)
	api.HandleFunc("/tracks/{id}", h.AuthMiddleware(h.AdminOnly(h.DeleteTrackHandler))).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/{id}/play", h.AuthMiddleware(h.PlayTrackHandler)).Methods(http.MethodPost)

	// Playlists
	api.HandleFunc("/playlists", h.OptionalAuthMiddleware(h.GetPlaylistsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	api.HandleFunc("/playlists/user/{userId}", h.OptionalAuthMiddleware(h.GetUserPlaylistsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", h.OptionalAuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/playlists/{id}/tracks", h.AuthMiddleware(h.AddTrackToPlaylistHandler)).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}/tracks/{trackId}", h.AuthMiddleware(h.RemoveTrackFromPlaylistHandler)).Methods(http.MethodDelete)

	// Favorites
	api.HandleFunc("/favorites", h.AuthMiddleware(h.GetFavoritesHandler)).Methods(http.MethodGet)
	api.HandleFunc("/favorites", h.AuthMiddleware(h.AddFavoriteHandler)).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{trackId}", h.AuthMiddleware(h.RemoveFavoriteHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/favorites/check/{trackId}", h.AuthMiddleware(h.CheckFavoriteHandler)).Methods(http.MethodGet)

	// Play history. Fixed paths before the id match.
	api.HandleFunc("/play-history", h.AuthMiddleware(h.GetPlayHistoryHandler)).Methods(http.MethodGet)
	api.HandleFunc("/play-history", h.AuthMiddleware(h.RecordPlayHandler)).Methods(http.MethodPost)
	api.HandleFunc("/play-history", h.AuthMiddleware(h.ClearPlayHistoryHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/play-history/recent", h.AuthMiddleware(h.GetRecentTracksHandler)).Methods(http.MethodGet)
	api.HandleFunc("/play-history/stats", h.AuthMiddleware(h.GetListeningStatsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/play-history/{id}", h.AuthMiddleware(h.DeletePlayHistoryEntryHandler)).Methods(http.MethodDelete)

	// Uploads. The key pattern spans slashes since object keys are prefixed.
	api.HandleFunc("/upload/track", h.AuthMiddleware(h.AdminOnly(h.UploadTrackHandler))).Methods(http.MethodPost)
	api.HandleFunc("/upload/image", h.AuthMiddleware(h.AdminOnly(h.UploadImageHandler))).Methods(http.MethodPost)
	api.HandleFunc("/upload/{key:.+}", h.AuthMiddleware(h.AdminOnly(h.DeleteUploadHandler))).Methods(http.MethodDelete)

	return router
}

// HealthHandler reports service liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
