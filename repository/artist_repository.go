package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// ArtistFilter narrows artist listings.
type ArtistFilter struct {
	Search       string
	GenreID      int64
	VerifiedOnly bool
	Page         Page
}

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	List(ctx context.Context, filter ArtistFilter) ([]*model.Artist, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Artist, error)
	Create(ctx context.Context, artist *model.Artist) error
	Update(ctx context.Context, artist *model.Artist) error
	SoftDelete(ctx context.Context, id int64) error
	Follow(ctx context.Context, artistID, userID int64) error
	Unfollow(ctx context.Context, artistID, userID int64) error
	ListFollowed(ctx context.Context, userID int64) ([]*model.Artist, error)
}

type gormArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a new GORM-backed artist repository.
func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: db}
}

func (r *gormArtistRepository) List(ctx context.Context, filter ArtistFilter) ([]*model.Artist, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Artist{}).Scopes(
		Active(),
		SearchBy("name", filter.Search),
		MemberOf("artists", "artist_genres", "artist_id", "genre_id", filter.GenreID),
		FlagTrue("is_verified", filter.VerifiedOnly),
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artists: %w", err)
	}

	var artists []*model.Artist
	err := base.Scopes(Paginate(filter.Page)).
		Preload("Genres").
		Order("monthly_listeners DESC, name ASC").
		Find(&artists).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, total, nil
}

func (r *gormArtistRepository) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).Preload("Genres").First(&artist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get artist by ID %d: %w", id, err)
	}
	return &artist, nil
}

func (r *gormArtistRepository) Create(ctx context.Context, artist *model.Artist) error {
	if err := r.db.WithContext(ctx).Create(artist).Error; err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

func (r *gormArtistRepository) Update(ctx context.Context, artist *model.Artist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if artist.Genres != nil {
			if err := tx.Model(artist).Association("Genres").Replace(artist.Genres); err != nil {
				return fmt.Errorf("failed to replace artist genres: %w", err)
			}
		}
		if err := tx.Omit("Genres", "Followers").Save(artist).Error; err != nil {
			return fmt.Errorf("failed to update artist %d: %w", artist.ID, err)
		}
		return nil
	})
}

// SoftDelete deactivates the artist and clears the artist reference on its
// tracks and albums. Dependents are not deleted. All three updates run in one
// transaction.
func (r *gormArtistRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Artist{}).
			Where("id = ? AND is_active = ?", id, true).
			Update("is_active", false)
		if res.Error != nil {
			return fmt.Errorf("failed to deactivate artist %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&model.Track{}).Where("artist_id = ?", id).
			Update("artist_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear artist reference on tracks: %w", err)
		}
		if err := tx.Model(&model.Album{}).Where("artist_id = ?", id).
			Update("artist_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear artist reference on albums: %w", err)
		}
		return nil
	})
}

// Follow records userID as a follower of the artist.
func (r *gormArtistRepository) Follow(ctx context.Context, artistID, userID int64) error {
	artist, err := r.GetByID(ctx, artistID)
	if err != nil {
		return err
	}
	if !artist.IsActive {
		return ErrNotFound
	}

	var count int64
	err = r.db.WithContext(ctx).Table("artist_followers").
		Where("artist_id = ? AND user_id = ?", artistID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check follower: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}

	err = r.db.WithContext(ctx).Table("artist_followers").
		Create(map[string]interface{}{"artist_id": artistID, "user_id": userID}).Error
	if err != nil {
		return fmt.Errorf("failed to follow artist %d: %w", artistID, err)
	}
	return nil
}

func (r *gormArtistRepository) Unfollow(ctx context.Context, artistID, userID int64) error {
	res := r.db.WithContext(ctx).Table("artist_followers").
		Where("artist_id = ? AND user_id = ?", artistID, userID).
		Delete(nil)
	if res.Error != nil {
		return fmt.Errorf("failed to unfollow artist %d: %w", artistID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormArtistRepository) ListFollowed(ctx context.Context, userID int64) ([]*model.Artist, error) {
	var artists []*model.Artist
	err := r.db.WithContext(ctx).Model(&model.Artist{}).
		Joins("JOIN artist_followers af ON af.artist_id = artists.id").
		Where("af.user_id = ?", userID).
		Scopes(Active()).
		Preload("Genres").
		Order("artists.name ASC").
		Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followed artists: %w", err)
	}
	return artists, nil
}
