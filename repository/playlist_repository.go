package repository

import (
	"context"
	"errors"
	"fmt"

	"wavebox/model"

	"gorm.io/gorm"
)

// PlaylistFilter narrows playlist listings. ViewerID, when set, widens the
// result from public playlists to public plus the viewer's own.
type PlaylistFilter struct {
	ViewerID     *int64
	Search       string
	FeaturedOnly bool
	Page         Page
}

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	List(ctx context.Context, filter PlaylistFilter) ([]*model.Playlist, int64, error)
	ListByUser(ctx context.Context, ownerID int64, publicOnly bool) ([]*model.Playlist, error)
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	GetTracks(ctx context.Context, playlistID int64) ([]*model.Track, error)
	Create(ctx context.Context, playlist *model.Playlist) error
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id int64) error
	AddTrack(ctx context.Context, playlistID, trackID int64) error
	RemoveTrack(ctx context.Context, playlistID, trackID int64) error
}

type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new GORM-backed playlist repository.
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func (r *gormPlaylistRepository) List(ctx context.Context, filter PlaylistFilter) ([]*model.Playlist, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Playlist{}).Scopes(
		SearchBy("name", filter.Search),
		FlagTrue("is_featured", filter.FeaturedOnly),
	)
	if filter.ViewerID != nil {
		base = base.Where(r.db.Where("is_public = ?", true).Or("user_id = ?", *filter.ViewerID))
	} else {
		base = base.Where("is_public = ?", true)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count playlists: %w", err)
	}

	var playlists []*model.Playlist
	err := base.Scopes(Paginate(filter.Page)).
		Preload("User").
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, total, nil
}

func (r *gormPlaylistRepository) ListByUser(ctx context.Context, ownerID int64, publicOnly bool) ([]*model.Playlist, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}

	var playlists []*model.Playlist
	err := q.Preload("User").Order("created_at DESC").Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", ownerID, err)
	}
	return playlists, nil
}

func (r *gormPlaylistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Preload("User").First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get playlist by ID %d: %w", id, err)
	}
	return &playlist, nil
}

// GetTracks returns the playlist's tracks in playlist order.
func (r *gormPlaylistRepository) GetTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	var tracks []*model.Track
	err := r.db.WithContext(ctx).Model(&model.Track{}).
		Joins("JOIN playlist_tracks pt ON pt.track_id = tracks.id").
		Where("pt.playlist_id = ?", playlistID).
		Scopes(Active()).
		Preload("Artist").
		Preload("Album").
		Order("pt.position ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks for playlist %d: %w", playlistID, err)
	}
	return tracks, nil
}

func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Omit("Tracks", "User").Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Omit("Tracks", "User").Save(playlist).Error; err != nil {
		return fmt.Errorf("failed to update playlist %d: %w", playlist.ID, err)
	}
	return nil
}

// Delete removes the playlist and its track links. Playlists are hard-deleted,
// unlike catalog entities.
func (r *gormPlaylistRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return fmt.Errorf("failed to delete playlist tracks: %w", err)
		}
		res := tx.Delete(&model.Playlist{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete playlist %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddTrack appends the track at the end of the playlist.
// ErrDuplicate is returned when the track is already present.
func (r *gormPlaylistRepository) AddTrack(ctx context.Context, playlistID, trackID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.PlaylistTrack{}).
			Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check playlist membership: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}

		var maxPos int
		err = tx.Model(&model.PlaylistTrack{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return fmt.Errorf("failed to get playlist position: %w", err)
		}

		link := &model.PlaylistTrack{
			PlaylistID: playlistID,
			TrackID:    trackID,
			Position:   maxPos + 1,
		}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("failed to add track %d to playlist %d: %w", trackID, playlistID, err)
		}
		return nil
	})
}

// RemoveTrack drops the track from the playlist. Removing a track that is not
// in the playlist is a no-op, matching the idempotent delete semantics of the
// membership list.
func (r *gormPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, trackID int64) error {
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&model.PlaylistTrack{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove track %d from playlist %d: %w", trackID, playlistID, err)
	}
	return nil
}
