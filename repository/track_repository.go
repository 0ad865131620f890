package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// TrackFilter narrows track listings.
type TrackFilter struct {
	Search   string
	GenreID  int64
	MoodID   int64
	ArtistID int64
	Page     Page
}

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	List(ctx context.Context, filter TrackFilter) ([]*model.Track, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	Search(ctx context.Context, term string, limit int) ([]*model.Track, error)
	Create(ctx context.Context, track *model.Track) error
	Update(ctx context.Context, track *model.Track) error
	SoftDelete(ctx context.Context, id int64) error
	IncrementPlayCount(ctx context.Context, id int64) error
}

type gormTrackRepository struct {
	db *gorm.DB
}

// NewTrackRepository creates a new GORM-backed track repository.
func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

func (r *gormTrackRepository) List(ctx context.Context, filter TrackFilter) ([]*model.Track, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Track{}).Scopes(
		Active(),
		SearchBy("title", filter.Search),
		MemberOf("tracks", "track_genres", "track_id", "genre_id", filter.GenreID),
		MemberOf("tracks", "track_moods", "track_id", "mood_id", filter.MoodID),
	)
	if filter.ArtistID != 0 {
		base = base.Where("artist_id = ?", filter.ArtistID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	var tracks []*model.Track
	err := base.Scopes(Paginate(filter.Page)).
		Preload("Artist").
		Preload("Album").
		Preload("Genres").
		Preload("Moods").
		Order("created_at DESC").
		Find(&tracks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, total, nil
}

// GetByID retrieves a track regardless of its active flag. Public handlers
// are responsible for treating inactive tracks as not found.
func (r *gormTrackRepository) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Album").
		Preload("Genres").
		Preload("Moods").
		First(&track, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get track by ID %d: %w", id, err)
	}
	return &track, nil
}

func (r *gormTrackRepository) Search(ctx context.Context, term string, limit int) ([]*model.Track, error) {
	var tracks []*model.Track
	err := r.db.WithContext(ctx).
		Scopes(Active(), SearchBy("title", term)).
		Preload("Artist").
		Preload("Album").
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) Create(ctx context.Context, track *model.Track) error {
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

func (r *gormTrackRepository) Update(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if track.Genres != nil {
			if err := tx.Model(track).Association("Genres").Replace(track.Genres); err != nil {
				return fmt.Errorf("failed to replace track genres: %w", err)
			}
		}
		if track.Moods != nil {
			if err := tx.Model(track).Association("Moods").Replace(track.Moods); err != nil {
				return fmt.Errorf("failed to replace track moods: %w", err)
			}
		}
		if err := tx.Omit("Genres", "Moods", "Artist", "Album").Save(track).Error; err != nil {
			return fmt.Errorf("failed to update track %d: %w", track.ID, err)
		}
		return nil
	})
}

// SoftDelete flips the active flag. Playlist and favorite rows that reference
// the track are kept and filtered out on read.
func (r *gormTrackRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Track{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementPlayCount bumps the play counter atomically in the store.
func (r *gormTrackRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.Track{}).
		Where("id = ?", id).
		Update("play_count", gorm.Expr("play_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment play count for track %d: %w", id, err)
	}
	return nil
}
