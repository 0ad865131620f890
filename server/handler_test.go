package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"wavebox/config"
	"wavebox/model"
	"wavebox/repository"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestAPIHandler builds an APIHandler over a fresh in-memory store.
func newTestAPIHandler(t *testing.T) (*APIHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))

	h := NewAPIHandler(
		repository.NewUserRepository(db),
		repository.NewArtistRepository(db),
		repository.NewAlbumRepository(db),
		repository.NewTrackRepository(db),
		repository.NewGenreRepository(db),
		repository.NewMoodRepository(db),
		repository.NewPlaylistRepository(db),
		repository.NewFavoriteRepository(db),
		repository.NewPlayHistoryRepository(db, sqlDB),
		&config.Config{},
	)
	return h, db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTrack(t *testing.T, db *gorm.DB, title string) *model.Track {
	t.Helper()
	track := &model.Track{Title: title, Duration: 180, FileURL: "http://files/" + title, IsActive: true}
	require.NoError(t, db.Create(track).Error)
	return track
}

// asUser stamps the authenticated identity on the request, the way
// AuthMiddleware would after verifying a token.
func asUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, model.RoleUser)
	return r.WithContext(ctx)
}

func withVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

func TestPlayTrackHandlerStoresSessionData(t *testing.T) {
	h, db := newTestAPIHandler(t)
	user := createUser(t, db, "listener@example.com")
	track := createTrack(t, db, "Session")

	body := strings.NewReader(`{"duration":42.5,"completed":false}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/1/play", body)
	req = asUser(req, user.ID)
	req = withVars(req, map[string]string{"id": strconv.FormatInt(track.ID, 10)})
	rec := httptest.NewRecorder()

	h.PlayTrackHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry model.PlayHistory
	require.NoError(t, db.Where("user_id = ? AND track_id = ?", user.ID, track.ID).First(&entry).Error)
	assert.Equal(t, 42.5, entry.Duration, "session duration from request body should be stored")
	assert.False(t, entry.Completed)

	var stored model.Track
	require.NoError(t, db.First(&stored, track.ID).Error)
	assert.Equal(t, int64(1), stored.PlayCount)
}

func TestPlayTrackHandlerCompletedPlay(t *testing.T) {
	h, db := newTestAPIHandler(t)
	user := createUser(t, db, "listener@example.com")
	track := createTrack(t, db, "Full")

	body := strings.NewReader(`{"duration":180,"completed":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/1/play", body)
	req = asUser(req, user.ID)
	req = withVars(req, map[string]string{"id": strconv.FormatInt(track.ID, 10)})
	rec := httptest.NewRecorder()

	h.PlayTrackHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry model.PlayHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, float64(180), entry.Duration)
	assert.True(t, entry.Completed)
}

func TestPlayTrackHandlerEmptyBody(t *testing.T) {
	h, db := newTestAPIHandler(t)
	user := createUser(t, db, "listener@example.com")
	track := createTrack(t, db, "Bare")

	req := httptest.NewRequest(http.MethodPost, "/api/tracks/1/play", nil)
	req = asUser(req, user.ID)
	req = withVars(req, map[string]string{"id": strconv.FormatInt(track.ID, 10)})
	rec := httptest.NewRecorder()

	h.PlayTrackHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry model.PlayHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Zero(t, entry.Duration)
	assert.False(t, entry.Completed)
}

func TestPlayTrackHandlerRejectsNegativeDuration(t *testing.T) {
	h, db := newTestAPIHandler(t)
	user := createUser(t, db, "listener@example.com")
	track := createTrack(t, db, "Bad")

	body := strings.NewReader(`{"duration":-1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/1/play", body)
	req = asUser(req, user.ID)
	req = withVars(req, map[string]string{"id": strconv.FormatInt(track.ID, 10)})
	rec := httptest.NewRecorder()

	h.PlayTrackHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.PlayHistory{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPlaylistHandlerPrivateVisibility(t *testing.T) {
	h, db := newTestAPIHandler(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	playlist := &model.Playlist{Name: "Private", UserID: owner.ID, IsPublic: false}
	require.NoError(t, db.Create(playlist).Error)
	vars := map[string]string{"id": strconv.FormatInt(playlist.ID, 10)}

	// Anonymous caller is rejected.
	req := withVars(httptest.NewRequest(http.MethodGet, "/api/playlists/1", nil), vars)
	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A different authenticated user is rejected too.
	req = withVars(asUser(httptest.NewRequest(http.MethodGet, "/api/playlists/1", nil), other.ID), vars)
	rec = httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner sees it.
	req = withVars(asUser(httptest.NewRequest(http.MethodGet, "/api/playlists/1", nil), owner.ID), vars)
	rec = httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeletePlayHistoryEntryHandlerOwnership(t *testing.T) {
	h, db := newTestAPIHandler(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	track := createTrack(t, db, "Loop")

	entry := &model.PlayHistory{UserID: owner.ID, TrackID: track.ID}
	require.NoError(t, h.historyRepo.Record(context.Background(), entry))
	vars := map[string]string{"id": strconv.FormatInt(entry.ID, 10)}

	// Another user cannot delete the owner's entry.
	req := withVars(asUser(httptest.NewRequest(http.MethodDelete, "/api/play-history/1", nil), other.ID), vars)
	rec := httptest.NewRecorder()
	h.DeletePlayHistoryEntryHandler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.PlayHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "entry survives the rejected delete")

	// The owner can.
	req = withVars(asUser(httptest.NewRequest(http.MethodDelete, "/api/play-history/1", nil), owner.ID), vars)
	rec = httptest.NewRecorder()
	h.DeletePlayHistoryEntryHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.Model(&model.PlayHistory{}).Count(&count).Error)
	assert.Zero(t, count)
}
