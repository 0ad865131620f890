package model

import "time"

// PlayHistory is an append-only record of a single play. Repeat plays of the
// same track produce separate rows.
type PlayHistory struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"not null;index:idx_user_played"`
	TrackID   int64     `json:"trackId" gorm:"not null;index"`
	Track     *Track    `json:"track,omitempty"`
	PlayedAt  time.Time `json:"playedAt" gorm:"not null;index:idx_user_played,sort:desc"`
	Duration  float64   `json:"duration" gorm:"not null;default:0"` // Seconds actually listened
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecentTrack is one row of the recent-distinct-tracks view: the latest play
// and play count per track, joined back to the track.
type RecentTrack struct {
	TrackID   int64     `json:"trackId"`
	PlayedAt  time.Time `json:"playedAt"`
	PlayCount int64     `json:"playCount"`
	Track     *Track    `json:"track"`
}

// ListeningStats aggregates a user's whole play history.
type ListeningStats struct {
	TotalPlays    int64   `json:"totalPlays"`
	TotalDuration float64 `json:"totalDuration"`
	UniqueTracks  int64   `json:"uniqueTracksCount"`
}
