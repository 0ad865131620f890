package model

import "time"

// Album represents an album in the catalog. ArtistID is nullable: soft-deleting
// an artist clears the reference on its albums instead of cascading.
type Album struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:100;not null;index"`
	ArtistID      *int64    `json:"artistId" gorm:"index"`
	Artist        *Artist   `json:"artist,omitempty"`
	ReleaseDate   time.Time `json:"releaseDate" gorm:"not null;index:,sort:desc"`
	CoverURL      string    `json:"coverUrl" gorm:"size:767"`
	Description   string    `json:"description,omitempty" gorm:"size:500"`
	TotalDuration float64   `json:"totalDuration" gorm:"not null;default:0"` // Seconds
	IsActive      bool      `json:"isActive" gorm:"not null;default:true"`
	Genres        []*Genre  `json:"genres,omitempty" gorm:"many2many:album_genres"`
	Tracks        []*Track  `json:"tracks,omitempty" gorm:"foreignKey:AlbumID"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
