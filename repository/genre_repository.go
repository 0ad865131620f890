package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// GenreRepository defines the interface for genre data operations.
type GenreRepository interface {
	List(ctx context.Context, search string, page Page) ([]*model.Genre, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Genre, error)
	Create(ctx context.Context, genre *model.Genre) error
	Update(ctx context.Context, genre *model.Genre) error
	SoftDelete(ctx context.Context, id int64) error
}

type gormGenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new GORM-backed genre repository.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &gormGenreRepository{db: db}
}

func (r *gormGenreRepository) List(ctx context.Context, search string, page Page) ([]*model.Genre, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Genre{}).
		Scopes(Active(), SearchBy("name", search))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	var genres []*model.Genre
	if err := base.Scopes(Paginate(page)).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, total, nil
}

func (r *gormGenreRepository) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get genre by ID %d: %w", id, err)
	}
	return &genre, nil
}

// Create inserts a new genre. Name uniqueness is enforced here so the caller
// gets ErrDuplicate instead of a driver-specific constraint error.
func (r *gormGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	taken, err := r.nameTaken(ctx, genre.Name, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *gormGenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	taken, err := r.nameTaken(ctx, genre.Name, genre.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Save(genre).Error; err != nil {
		return fmt.Errorf("failed to update genre %d: %w", genre.ID, err)
	}
	return nil
}

func (r *gormGenreRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Genre{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete genre %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormGenreRepository) nameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Genre{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check genre name: %w", err)
	}
	return count > 0, nil
}
