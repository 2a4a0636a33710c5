package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountStats holds the contribution and verification signals used to derive
// a user's trust score. Mutated by the content services, only read by the
// moderation engine.
type AccountStats struct {
	EmailVerified  bool `gorm:"default:false" json:"email_verified"`
	PhoneVerified  bool `gorm:"default:false" json:"phone_verified"`
	ReviewCount    int  `gorm:"default:0" json:"review_count"`
	PhotoCount     int  `gorm:"default:0" json:"photo_count"`
	HelpfulVotes   int  `gorm:"default:0" json:"helpful_votes"`
	DeletedContent int  `gorm:"default:0" json:"deleted_content"`
	ReportsAgainst int  `gorm:"default:0" json:"reports_against"`
}

// SanctionState holds the account-level sanction fields. Mutated only by the
// sanction applier and the appeal resolver.
type SanctionState struct {
	MutedUntil  *time.Time `json:"muted_until,omitempty"`
	MuteReason  string     `gorm:"type:text;default:''" json:"mute_reason,omitempty"`
	IsBanned    bool       `gorm:"default:false" json:"is_banned"`
	BanReason   string     `gorm:"type:text;default:''" json:"ban_reason,omitempty"`
	StrikeCount int        `gorm:"default:0" json:"strike_count"`
}

// MutedAt reports whether the account is muted at the given instant.
func (s SanctionState) MutedAt(now time.Time) bool {
	return s.MutedUntil != nil && s.MutedUntil.After(now)
}

// User represents an account on the platform.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	Points    int            `gorm:"default:0" json:"points"`
	Stats     AccountStats   `gorm:"embedded" json:"stats"`
	Sanction  SanctionState  `gorm:"embedded" json:"sanction"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AccountAgeDays returns the age of the account in whole days at the given instant.
func (u *User) AccountAgeDays(now time.Time) int {
	if u.CreatedAt.IsZero() || now.Before(u.CreatedAt) {
		return 0
	}
	return int(now.Sub(u.CreatedAt).Hours() / 24)
}
