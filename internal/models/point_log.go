package models

import "time"

// Point amounts awarded for approved contributions.
const (
	PointsReview       = 5
	PointsReport       = 2
	PointsPlaceCreated = 10
)

// PointLog records a single gamification point change for a user.
type PointLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount    int       `gorm:"not null" json:"amount"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
