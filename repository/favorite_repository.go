package repository

import (
	"context"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favorite data operations.
type FavoriteRepository interface {
	List(ctx context.Context, userID int64, page Page) ([]*model.Favorite, int64, error)
	Add(ctx context.Context, userID, trackID int64) (*model.Favorite, error)
	Remove(ctx context.Context, userID, trackID int64) error
	Exists(ctx context.Context, userID, trackID int64) (bool, error)
}

type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new GORM-backed favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// List returns the user's favorites, newest first. Rows whose track has been
// removed or deactivated are dropped from the page; the total still counts
// every stored row, matching the paginated source view.
func (r *gormFavoriteRepository) List(ctx context.Context, userID int64, page Page) ([]*model.Favorite, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	var favorites []*model.Favorite
	err := base.Scopes(Paginate(page)).
		Preload("Track").
		Preload("Track.Artist").
		Preload("Track.Album").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	valid := favorites[:0]
	for _, f := range favorites {
		if f.Track != nil && f.Track.IsActive {
			valid = append(valid, f)
		}
	}
	return valid, total, nil
}

// Add favorites the track for the user. ErrDuplicate is returned when the
// pair already exists.
func (r *gormFavoriteRepository) Add(ctx context.Context, userID, trackID int64) (*model.Favorite, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	favorite := &model.Favorite{UserID: userID, TrackID: trackID}
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	err = r.db.WithContext(ctx).
		Preload("Track").
		Preload("Track.Artist").
		Preload("Track.Album").
		First(favorite, favorite.ID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite %d: %w", favorite.ID, err)
	}
	return favorite, nil
}

func (r *gormFavoriteRepository) Remove(ctx context.Context, userID, trackID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormFavoriteRepository) Exists(ctx context.Context, userID, trackID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
