package repository

import (
	"context"
	"testing"

	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistAddTrackOrderAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	playlist := &model.Playlist{Name: "Focus", UserID: owner.ID, IsPublic: true}
	require.NoError(t, repo.Create(ctx, playlist))

	first := seedTrack(t, db, "First", nil)
	second := seedTrack(t, db, "Second", nil)

	require.NoError(t, repo.AddTrack(ctx, playlist.ID, first.ID))
	require.NoError(t, repo.AddTrack(ctx, playlist.ID, second.ID))
	assert.ErrorIs(t, repo.AddTrack(ctx, playlist.ID, first.ID), ErrDuplicate)

	tracks, err := repo.GetTracks(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, first.ID, tracks[0].ID)
	assert.Equal(t, second.ID, tracks[1].ID)
}

func TestPlaylistRemoveTrackIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	playlist := &model.Playlist{Name: "Focus", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, playlist))
	track := seedTrack(t, db, "Loop", nil)

	require.NoError(t, repo.AddTrack(ctx, playlist.ID, track.ID))
	require.NoError(t, repo.RemoveTrack(ctx, playlist.ID, track.ID))
	// Removing an absent track is a no-op.
	require.NoError(t, repo.RemoveTrack(ctx, playlist.ID, track.ID))

	tracks, err := repo.GetTracks(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestPlaylistGetTracksSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	trackRepo := NewTrackRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	playlist := &model.Playlist{Name: "Mixed", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, playlist))

	alive := seedTrack(t, db, "Alive", nil)
	dead := seedTrack(t, db, "Dead", nil)
	require.NoError(t, repo.AddTrack(ctx, playlist.ID, alive.ID))
	require.NoError(t, repo.AddTrack(ctx, playlist.ID, dead.ID))

	require.NoError(t, trackRepo.SoftDelete(ctx, dead.ID))

	tracks, err := repo.GetTracks(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, alive.ID, tracks[0].ID)
}

func TestPlaylistListVisibility(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	require.NoError(t, repo.Create(ctx, &model.Playlist{Name: "Public", UserID: owner.ID, IsPublic: true}))
	require.NoError(t, repo.Create(ctx, &model.Playlist{Name: "Private", UserID: owner.ID}))

	// Anonymous viewers see only public playlists.
	playlists, total, err := repo.List(ctx, PlaylistFilter{Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Public", playlists[0].Name)

	// The owner sees public playlists plus their own private ones.
	playlists, total, err = repo.List(ctx, PlaylistFilter{ViewerID: &owner.ID, Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, playlists, 2)

	// A different authenticated user still sees only public ones.
	playlists, total, err = repo.List(ctx, PlaylistFilter{ViewerID: &other.ID, Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, playlists, 1)
}

func TestPlaylistListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	require.NoError(t, repo.Create(ctx, &model.Playlist{Name: "Public", UserID: owner.ID, IsPublic: true}))
	require.NoError(t, repo.Create(ctx, &model.Playlist{Name: "Private", UserID: owner.ID}))

	all, err := repo.ListByUser(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := repo.ListByUser(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Public", public[0].Name)
}

func TestPlaylistDeleteRemovesLinks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	playlist := &model.Playlist{Name: "Gone", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, playlist))
	track := seedTrack(t, db, "Leftover", nil)
	require.NoError(t, repo.AddTrack(ctx, playlist.ID, track.ID))

	require.NoError(t, repo.Delete(ctx, playlist.ID))

	_, err := repo.GetByID(ctx, playlist.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int64
	require.NoError(t, db.Model(&model.PlaylistTrack{}).Where("playlist_id = ?", playlist.ID).Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, repo.Delete(ctx, playlist.ID), ErrNotFound)
}
