package repository

import (
	"context"
	"testing"
	"time"

	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayHistoryRecordAndList(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")
	track := seedTrack(t, db, "Loop", nil)

	older := &model.PlayHistory{UserID: user.ID, TrackID: track.ID, PlayedAt: time.Now().Add(-time.Hour), Duration: 100}
	newer := &model.PlayHistory{UserID: user.ID, TrackID: track.ID, PlayedAt: time.Now(), Duration: 180, Completed: true}
	require.NoError(t, repo.Record(ctx, older))
	require.NoError(t, repo.Record(ctx, newer))

	entries, total, err := repo.List(ctx, user.ID, Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID, "most recent play first")
}

func TestPlayHistoryRecordDefaultsPlayedAt(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)

	user := seedUser(t, db, "listener@example.com")
	track := seedTrack(t, db, "Loop", nil)

	entry := &model.PlayHistory{UserID: user.ID, TrackID: track.ID}
	require.NoError(t, repo.Record(context.Background(), entry))
	assert.False(t, entry.PlayedAt.IsZero())
}

func TestPlayHistoryRecentDistinct(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")
	artist := seedArtist(t, db, "Nightdrive")
	first := seedTrack(t, db, "First", &artist.ID)
	second := seedTrack(t, db, "Second", nil)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	// first played twice, second once in between.
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: first.ID, PlayedAt: base}))
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: second.ID, PlayedAt: base.Add(10 * time.Minute)}))
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: first.ID, PlayedAt: base.Add(20 * time.Minute)}))

	recent, err := repo.Recent(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2, "repeat plays collapse to one row per track")

	assert.Equal(t, first.ID, recent[0].TrackID)
	assert.Equal(t, int64(2), recent[0].PlayCount)
	require.NotNil(t, recent[0].Track)
	require.NotNil(t, recent[0].Track.Artist)
	assert.Equal(t, "Nightdrive", recent[0].Track.Artist.Name)

	assert.Equal(t, second.ID, recent[1].TrackID)
	assert.Equal(t, int64(1), recent[1].PlayCount)
}

func TestPlayHistoryRecentSkipsInactiveTracks(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	trackRepo := NewTrackRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")
	dead := seedTrack(t, db, "Dead", nil)
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: dead.ID}))
	require.NoError(t, trackRepo.SoftDelete(ctx, dead.ID))

	recent, err := repo.Recent(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPlayHistoryRecentLimitAppliesBeforeActiveFilter(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	trackRepo := NewTrackRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")
	older := seedTrack(t, db, "Older", nil)
	newest := seedTrack(t, db, "Newest", nil)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: older.ID, PlayedAt: base}))
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: newest.ID, PlayedAt: base.Add(10 * time.Minute)}))

	require.NoError(t, trackRepo.SoftDelete(ctx, newest.ID))

	// The newest distinct track occupies the single slot even though it has
	// been deactivated; the older active track does not backfill it.
	recent, err := repo.Recent(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = repo.Recent(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, older.ID, recent[0].TrackID)
}

func TestPlayHistoryStats(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")

	// No history yields zeros, not an error.
	stats, err := repo.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPlays)
	assert.Zero(t, stats.TotalDuration)
	assert.Zero(t, stats.UniqueTracks)

	first := seedTrack(t, db, "First", nil)
	second := seedTrack(t, db, "Second", nil)
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: first.ID, Duration: 120}))
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: first.ID, Duration: 60}))
	require.NoError(t, repo.Record(ctx, &model.PlayHistory{UserID: user.ID, TrackID: second.ID, Duration: 30}))

	stats, err = repo.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPlays)
	assert.Equal(t, float64(210), stats.TotalDuration)
	assert.Equal(t, int64(2), stats.UniqueTracks)
}

func TestPlayHistoryClearAndDelete(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	repo := NewPlayHistoryRepository(db, sqlDB)
	ctx := context.Background()

	user := seedUser(t, db, "listener@example.com")
	other := seedUser(t, db, "other@example.com")
	track := seedTrack(t, db, "Loop", nil)

	mine := &model.PlayHistory{UserID: user.ID, TrackID: track.ID}
	theirs := &model.PlayHistory{UserID: other.ID, TrackID: track.ID}
	require.NoError(t, repo.Record(ctx, mine))
	require.NoError(t, repo.Record(ctx, theirs))

	require.NoError(t, repo.Delete(ctx, mine.ID))
	assert.ErrorIs(t, repo.Delete(ctx, mine.ID), ErrNotFound)

	require.NoError(t, repo.Clear(ctx, user.ID))

	// Clearing one user leaves the other's history alone.
	_, total, err := repo.List(ctx, other.ID, Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
