package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// AlbumFilter narrows album listings.
type AlbumFilter struct {
	Search   string
	GenreID  int64
	ArtistID int64
	Page     Page
}

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	List(ctx context.Context, filter AlbumFilter) ([]*model.Album, int64, error)
	ListByArtist(ctx context.Context, artistID int64) ([]*model.Album, error)
	GetByID(ctx context.Context, id int64) (*model.Album, error)
	Create(ctx context.Context, album *model.Album) error
	Update(ctx context.Context, album *model.Album) error
	SoftDelete(ctx context.Context, id int64) error
}

type gormAlbumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a new GORM-backed album repository.
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

func (r *gormAlbumRepository) List(ctx context.Context, filter AlbumFilter) ([]*model.Album, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Album{}).Scopes(
		Active(),
		SearchBy("title", filter.Search),
		MemberOf("albums", "album_genres", "album_id", "genre_id", filter.GenreID),
	)
	if filter.ArtistID != 0 {
		base = base.Where("artist_id = ?", filter.ArtistID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count albums: %w", err)
	}

	var albums []*model.Album
	err := base.Scopes(Paginate(filter.Page)).
		Preload("Artist").
		Preload("Genres").
		Order("release_date DESC").
		Find(&albums).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, total, nil
}

func (r *gormAlbumRepository) ListByArtist(ctx context.Context, artistID int64) ([]*model.Album, error) {
	var albums []*model.Album
	err := r.db.WithContext(ctx).
		Scopes(Active()).
		Where("artist_id = ?", artistID).
		Preload("Genres").
		Order("release_date DESC").
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for artist %d: %w", artistID, err)
	}
	return albums, nil
}

func (r *gormAlbumRepository) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Genres").
		Preload("Tracks", "is_active = ?", true).
		First(&album, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *gormAlbumRepository) Update(ctx context.Context, album *model.Album) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if album.Genres != nil {
			if err := tx.Model(album).Association("Genres").Replace(album.Genres); err != nil {
				return fmt.Errorf("failed to replace album genres: %w", err)
			}
		}
		if err := tx.Omit("Genres", "Tracks", "Artist").Save(album).Error; err != nil {
			return fmt.Errorf("failed to update album %d: %w", album.ID, err)
		}
		return nil
	})
}

// SoftDelete deactivates the album and clears the album reference on its
// member tracks. Tracks are not deleted.
func (r *gormAlbumRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Album{}).
			Where("id = ? AND is_active = ?", id, true).
			Update("is_active", false)
		if res.Error != nil {
			return fmt.Errorf("failed to deactivate album %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&model.Track{}).Where("album_id = ?", id).
			Update("album_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear album reference on tracks: %w", err)
		}
		return nil
	})
}
