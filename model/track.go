package model

import "time"

// Track represents an audio track in the catalog.
type Track struct {
	ID        int64    `json:"id" gorm:"primaryKey"`
	Title     string   `json:"title" gorm:"size:100;not null;index"`
	ArtistID  *int64   `json:"artistId" gorm:"index"`
	Artist    *Artist  `json:"artist,omitempty"`
	AlbumID   *int64   `json:"albumId" gorm:"index"`
	Album     *Album   `json:"album,omitempty"`
	Duration  float64  `json:"duration" gorm:"not null"` // Seconds
	FileURL   string   `json:"fileUrl" gorm:"size:767;not null"`
	CoverURL  string   `json:"coverUrl" gorm:"size:767"`
	Lyrics    string   `json:"lyrics,omitempty" gorm:"type:text"`
	PlayCount int64    `json:"playCount" gorm:"not null;default:0"`
	IsActive  bool     `json:"isActive" gorm:"not null;default:true"`
	Genres    []*Genre `json:"genres,omitempty" gorm:"many2many:track_genres"`
	Moods     []*Mood  `json:"moods,omitempty" gorm:"many2many:track_moods"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
