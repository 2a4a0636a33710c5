package models

import "time"

// AppealState tracks whether a moderation record has been appealed.
type AppealState string

const (
	AppealStateNone     AppealState = ""
	AppealStatePending  AppealState = "PENDING"
	AppealStateApproved AppealState = "APPROVED"
	AppealStateRejected AppealState = "REJECTED"
)

// ModerationRecord is the durable audit entry written once per moderation
// decision. Rows are immutable after creation except for the sanction detail
// attached right after the sanction is applied, and the appeal state fields.
// Records are never deleted.
type ModerationRecord struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Ref string `gorm:"size:36;uniqueIndex;not null" json:"ref"` // public reference, citable in appeals

	UserID      uint   `gorm:"not null;index:idx_mod_records_user_created" json:"user_id"`
	ActionType  string `gorm:"size:20;not null" json:"action_type"` // APPROVE, FLAG_FOR_REVIEW, REJECT
	Reason      string `gorm:"type:text" json:"reason"`
	Severity    string `gorm:"size:10;not null" json:"severity"` // LEVE, MODERADO, SEVERO
	Category    string `gorm:"size:20;index" json:"category"`    // bad_words, spam, toxicity, clean
	ContentType string `gorm:"size:10;not null" json:"content_type"`
	ContentID   string `gorm:"size:64" json:"content_id"`
	Snippet     string `gorm:"size:280" json:"snippet"`

	DetectedIssues string  `gorm:"type:text" json:"detected_issues"` // comma-separated indicator list
	ToxicityScore  float64 `json:"toxicity_score"`
	SpamScore      int     `json:"spam_score"`
	TrustScore     int     `json:"trust_score"`
	TrustLevel     string  `gorm:"size:10" json:"trust_level"`

	// Account snapshot at decision time.
	StrikesAtDecision    int `json:"strikes_at_decision"`
	ViolationsInWindow   int `json:"violations_in_window"`
	AccountAgeDaysAtTime int `json:"account_age_days_at_time"`

	SanctionLevel   string     `gorm:"size:20;default:''" json:"sanction_level,omitempty"`
	SanctionExpires *time.Time `json:"sanction_expires,omitempty"`

	Automated   bool        `gorm:"default:true;index" json:"automated"`
	AppealState AppealState `gorm:"size:10;default:''" json:"appeal_state,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_mod_records_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ModerationRecord) TableName() string {
	return "moderation_records"
}
