package repository

import (
	"context"
	"testing"

	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistSoftDeleteClearsReferences(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	artist := seedArtist(t, db, "Nightdrive")
	track := seedTrack(t, db, "Neon", &artist.ID)
	album := &model.Album{Title: "City Lights", ArtistID: &artist.ID, IsActive: true}
	require.NoError(t, db.Create(album).Error)

	require.NoError(t, repo.SoftDelete(ctx, artist.ID))

	var storedTrack model.Track
	require.NoError(t, db.First(&storedTrack, track.ID).Error)
	assert.Nil(t, storedTrack.ArtistID)
	assert.True(t, storedTrack.IsActive, "tracks survive their artist")

	var storedAlbum model.Album
	require.NoError(t, db.First(&storedAlbum, album.ID).Error)
	assert.Nil(t, storedAlbum.ArtistID)

	assert.ErrorIs(t, repo.SoftDelete(ctx, artist.ID), ErrNotFound)
}

func TestArtistFollowDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	artist := seedArtist(t, db, "Lumen")
	user := seedUser(t, db, "fan@example.com")

	require.NoError(t, repo.Follow(ctx, artist.ID, user.ID))
	assert.ErrorIs(t, repo.Follow(ctx, artist.ID, user.ID), ErrDuplicate)

	followed, err := repo.ListFollowed(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, artist.ID, followed[0].ID)
}

func TestArtistUnfollowNotFollowing(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	artist := seedArtist(t, db, "Lumen")
	user := seedUser(t, db, "fan@example.com")

	assert.ErrorIs(t, repo.Unfollow(ctx, artist.ID, user.ID), ErrNotFound)

	require.NoError(t, repo.Follow(ctx, artist.ID, user.ID))
	require.NoError(t, repo.Unfollow(ctx, artist.ID, user.ID))

	followed, err := repo.ListFollowed(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, followed)
}

func TestArtistFollowInactiveArtist(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	artist := seedArtist(t, db, "Gone")
	user := seedUser(t, db, "fan@example.com")
	require.NoError(t, repo.SoftDelete(ctx, artist.ID))

	assert.ErrorIs(t, repo.Follow(ctx, artist.ID, user.ID), ErrNotFound)
}

func TestArtistListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	genre := &model.Genre{Name: "Electronic", IsActive: true}
	require.NoError(t, db.Create(genre).Error)

	verified := &model.Artist{Name: "Aurora", IsVerified: true, IsActive: true, Genres: []*model.Genre{genre}}
	require.NoError(t, db.Create(verified).Error)
	seedArtist(t, db, "Borealis")

	artists, total, err := repo.List(ctx, ArtistFilter{VerifiedOnly: true, Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, artists, 1)
	assert.Equal(t, "Aurora", artists[0].Name)

	artists, total, err = repo.List(ctx, ArtistFilter{GenreID: genre.ID, Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, artists, 1)
	assert.Equal(t, "Aurora", artists[0].Name)
	require.Len(t, artists[0].Genres, 1)
}

func TestArtistListOrdersByListeners(t *testing.T) {
	db := newTestDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	small := &model.Artist{Name: "Small", MonthlyListeners: 10, IsActive: true}
	big := &model.Artist{Name: "Big", MonthlyListeners: 1000, IsActive: true}
	require.NoError(t, db.Create(small).Error)
	require.NoError(t, db.Create(big).Error)

	artists, _, err := repo.List(ctx, ArtistFilter{Page: Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Big", artists[0].Name)
}
