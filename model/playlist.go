package model

import "time"

// Playlist represents a user-owned, ordered collection of tracks.
// Only the owner may mutate it; IsPublic gates read access for everyone else.
type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"size:500"`
	UserID      int64     `json:"userId" gorm:"not null;index"`
	User        *User     `json:"user,omitempty"`
	CoverURL    string    `json:"coverUrl" gorm:"size:767"`
	IsPublic    bool      `json:"isPublic" gorm:"not null;default:false;index"`
	IsFeatured  bool      `json:"isFeatured" gorm:"not null;default:false;index"`
	PlayCount   int64     `json:"playCount" gorm:"not null;default:0"`
	Tracks      []*Track  `json:"tracks,omitempty" gorm:"many2many:playlist_tracks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistTrack is the join row between playlists and tracks.
// Position preserves the playlist order.
type PlaylistTrack struct {
	PlaylistID int64     `json:"playlistId" gorm:"primaryKey"`
	TrackID    int64     `json:"trackId" gorm:"primaryKey"`
	Position   int       `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
}
