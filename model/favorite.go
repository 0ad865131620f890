package model

import "time"

// Favorite links a user to a track. At most one row per (user, track) pair.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"not null;uniqueIndex:uq_user_track;index"`
	TrackID   int64     `json:"trackId" gorm:"not null;uniqueIndex:uq_user_track;index"`
	Track     *Track    `json:"track,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
