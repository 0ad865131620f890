package model

import "time"

// Genre represents a music genre. Names are unique at the store level.
type Genre struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description,omitempty" gorm:"size:200"`
	Color       string    `json:"color" gorm:"size:20;not null;default:#6366f1"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
