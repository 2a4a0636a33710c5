package models

import "time"

// ReportTargetType identifies what a report points at.
type ReportTargetType string

const (
	ReportTargetPlace  ReportTargetType = "place"
	ReportTargetReview ReportTargetType = "review"
	ReportTargetUser   ReportTargetType = "user"
)

// ReportStatus is the lifecycle state of a user report.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusIgnored  ReportStatus = "ignored"
)

// Report is a user-submitted complaint about a place, review, or user.
// The free-text reason passes through the moderation pipeline like any other
// submission.
type Report struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ReporterID uint             `gorm:"not null;index" json:"reporter_id"`
	Reporter   *User            `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	TargetType ReportTargetType `gorm:"size:20;not null" json:"target_type"`
	TargetID   uint             `gorm:"not null;index" json:"target_id"`
	Reason     string           `gorm:"type:text;not null" json:"reason"`
	Language   string           `gorm:"size:8;default:'es'" json:"language"`
	Status     ReportStatus     `gorm:"size:20;default:'open';index" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
