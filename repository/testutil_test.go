package repository

import (
	"testing"

	"wavebox/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema migrated.
// The connection pool is pinned to one connection so every query sees the
// same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedArtist(t *testing.T, db *gorm.DB, name string) *model.Artist {
	t.Helper()
	artist := &model.Artist{Name: name, IsActive: true}
	require.NoError(t, db.Create(artist).Error)
	return artist
}

func seedTrack(t *testing.T, db *gorm.DB, title string, artistID *int64) *model.Track {
	t.Helper()
	track := &model.Track{Title: title, ArtistID: artistID, Duration: 180, FileURL: "http://files/" + title, IsActive: true}
	require.NoError(t, db.Create(track).Error)
	return track
}
