package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// MoodRepository defines the interface for mood data operations.
type MoodRepository interface {
	List(ctx context.Context, search string, page Page) ([]*model.Mood, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Mood, error)
	Create(ctx context.Context, mood *model.Mood) error
	Update(ctx context.Context, mood *model.Mood) error
	SoftDelete(ctx context.Context, id int64) error
}

type gormMoodRepository struct {
	db *gorm.DB
}

// NewMoodRepository creates a new GORM-backed mood repository.
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &gormMoodRepository{db: db}
}

func (r *gormMoodRepository) List(ctx context.Context, search string, page Page) ([]*model.Mood, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Mood{}).
		Scopes(Active(), SearchBy("name", search))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count moods: %w", err)
	}

	var moods []*model.Mood
	if err := base.Scopes(Paginate(page)).Order("name ASC").Find(&moods).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, total, nil
}

func (r *gormMoodRepository) GetByID(ctx context.Context, id int64) (*model.Mood, error) {
	var mood model.Mood
	err := r.db.WithContext(ctx).First(&mood, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mood by ID %d: %w", id, err)
	}
	return &mood, nil
}

func (r *gormMoodRepository) Create(ctx context.Context, mood *model.Mood) error {
	taken, err := r.nameTaken(ctx, mood.Name, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(mood).Error; err != nil {
		return fmt.Errorf("failed to create mood: %w", err)
	}
	return nil
}

func (r *gormMoodRepository) Update(ctx context.Context, mood *model.Mood) error {
	taken, err := r.nameTaken(ctx, mood.Name, mood.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Save(mood).Error; err != nil {
		return fmt.Errorf("failed to update mood %d: %w", mood.ID, err)
	}
	return nil
}

func (r *gormMoodRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.Mood{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to delete mood %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormMoodRepository) nameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Mood{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check mood name: %w", err)
	}
	return count > 0, nil
}
