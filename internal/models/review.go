package models

import (
	"time"

	"gorm.io/gorm"
)

// ReviewStatus reflects the moderation outcome attached to a review.
type ReviewStatus string

const (
	ReviewStatusPublished ReviewStatus = "PUBLISHED"
	// ReviewStatusFlagged content is visible but queued for human review.
	ReviewStatusFlagged ReviewStatus = "FLAGGED"
)

// Review is a rating plus free text a user leaves on a place.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlaceID   uint           `gorm:"not null;index" json:"place_id"`
	Place     *Place         `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
	Rating    int            `gorm:"not null" json:"rating"` // 1..5
	Text      string         `gorm:"type:text" json:"text"`
	Language  string         `gorm:"size:8;default:'es'" json:"language"`
	Status    ReviewStatus   `gorm:"size:20;default:'PUBLISHED'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
