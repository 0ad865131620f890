package model

import "time"

// Artist represents a catalog artist. Albums and tracks reference the artist
// through their own foreign keys; the reverse lists are computed by query.
type Artist struct {
	ID               int64    `json:"id" gorm:"primaryKey"`
	Name             string   `json:"name" gorm:"size:100;not null;index"`
	Bio              string   `json:"bio,omitempty" gorm:"size:1000"`
	ImageURL         string   `json:"imageUrl" gorm:"size:767"`
	MonthlyListeners int64    `json:"monthlyListeners" gorm:"not null;default:0"`
	IsVerified       bool     `json:"isVerified" gorm:"not null;default:false;index"`
	IsActive         bool     `json:"isActive" gorm:"not null;default:true"`
	Genres           []*Genre `json:"genres,omitempty" gorm:"many2many:artist_genres"`
	Followers        []*User  `json:"-" gorm:"many2many:artist_followers"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
