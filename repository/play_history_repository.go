package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wavebox/model"

	"gorm.io/gorm"
)

// PlayHistoryRepository defines the interface for play history operations.
// Plain CRUD goes through GORM; the derived views (recent distinct tracks,
// listening stats) are fixed SQL statements on the raw connection.
type PlayHistoryRepository interface {
	Record(ctx context.Context, entry *model.PlayHistory) error
	List(ctx context.Context, userID int64, page Page) ([]*model.PlayHistory, int64, error)
	GetByID(ctx context.Context, id int64) (*model.PlayHistory, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context, userID int64) error
	Recent(ctx context.Context, userID int64, limit int) ([]*model.RecentTrack, error)
	Stats(ctx context.Context, userID int64) (*model.ListeningStats, error)
}

type playHistoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewPlayHistoryRepository creates a play history repository over the GORM
// handle and the raw handle it shares a schema with.
func NewPlayHistoryRepository(db *gorm.DB, sqlDB *sql.DB) PlayHistoryRepository {
	return &playHistoryRepository{db: db, sqlDB: sqlDB}
}

// Record appends one play. History is append-only; repeat plays are allowed.
func (r *playHistoryRepository) Record(ctx context.Context, entry *model.PlayHistory) error {
	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Omit("Track").Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// List returns the user's history, most recent play first. Rows whose track
// has vanished or been deactivated are dropped from the page.
func (r *playHistoryRepository) List(ctx context.Context, userID int64, page Page) ([]*model.PlayHistory, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.PlayHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count play history: %w", err)
	}

	var entries []*model.PlayHistory
	err := base.Scopes(Paginate(page)).
		Preload("Track").
		Preload("Track.Artist").
		Preload("Track.Album").
		Order("played_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list play history: %w", err)
	}

	valid := entries[:0]
	for _, e := range entries {
		if e.Track != nil && e.Track.IsActive {
			valid = append(valid, e)
		}
	}
	return valid, total, nil
}

func (r *playHistoryRepository) GetByID(ctx context.Context, id int64) (*model.PlayHistory, error) {
	var entry model.PlayHistory
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get play history entry %d: %w", id, err)
	}
	return &entry, nil
}

func (r *playHistoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.PlayHistory{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete play history entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *playHistoryRepository) Clear(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.PlayHistory{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear play history for user %d: %w", userID, err)
	}
	return nil
}

// recentQuery groups history rows per track, keeps the latest play and a per
// track play count, caps the grouped rows to the limit and only then joins
// back to the catalog, dropping tracks that are gone or inactive. The limit
// applies before the active filter, so a deactivated recent track shrinks the
// result instead of backfilling it with an older one. Ties on played_at break
// on track id so the order is stable.
const recentQuery = `
SELECT h.track_id, h.last_played, h.plays,
       t.title, t.duration, t.file_url, t.cover_url, t.play_count,
       ar.id, ar.name, al.id, al.title, al.cover_url
FROM (
    SELECT track_id, MAX(played_at) AS last_played, COUNT(*) AS plays
    FROM play_histories
    WHERE user_id = ?
    GROUP BY track_id
    ORDER BY last_played DESC, track_id DESC
    LIMIT ?
) h
JOIN tracks t ON t.id = h.track_id AND t.is_active = 1
LEFT JOIN artists ar ON ar.id = t.artist_id
LEFT JOIN albums al ON al.id = t.album_id
ORDER BY h.last_played DESC, h.track_id DESC`

// Recent returns the user's most recently played distinct tracks.
func (r *playHistoryRepository) Recent(ctx context.Context, userID int64, limit int) ([]*model.RecentTrack, error) {
	rows, err := r.sqlDB.QueryContext(ctx, recentQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tracks: %w", err)
	}
	defer rows.Close()

	recent := make([]*model.RecentTrack, 0)
	for rows.Next() {
		var (
			rt         model.RecentTrack
			track      model.Track
			artistID   sql.NullInt64
			artistName sql.NullString
			albumID    sql.NullInt64
			albumTitle sql.NullString
			albumCover sql.NullString
		)
		err := rows.Scan(
			&rt.TrackID, &rt.PlayedAt, &rt.PlayCount,
			&track.Title, &track.Duration, &track.FileURL, &track.CoverURL, &track.PlayCount,
			&artistID, &artistName, &albumID, &albumTitle, &albumCover,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent track: %w", err)
		}

		track.ID = rt.TrackID
		track.IsActive = true
		if artistID.Valid {
			track.ArtistID = &artistID.Int64
			track.Artist = &model.Artist{ID: artistID.Int64, Name: artistName.String}
		}
		if albumID.Valid {
			track.AlbumID = &albumID.Int64
			track.Album = &model.Album{ID: albumID.Int64, Title: albumTitle.String, CoverURL: albumCover.String}
		}
		rt.Track = &track
		recent = append(recent, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent tracks: %w", err)
	}
	return recent, nil
}

const statsQuery = `
SELECT COUNT(*), COALESCE(SUM(duration), 0), COUNT(DISTINCT track_id)
FROM play_histories
WHERE user_id = ?`

// Stats aggregates the user's whole history. A user with no history gets
// zeros, not an error.
func (r *playHistoryRepository) Stats(ctx context.Context, userID int64) (*model.ListeningStats, error) {
	var stats model.ListeningStats
	err := r.sqlDB.QueryRowContext(ctx, statsQuery, userID).
		Scan(&stats.TotalPlays, &stats.TotalDuration, &stats.UniqueTracks)
	if err != nil {
		return nil, fmt.Errorf("failed to query listening stats: %w", err)
	}
	return &stats, nil
}
