package models

import "time"

// AppealStatus is the lifecycle state of an appeal. APPROVED and REJECTED are
// terminal.
type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "PENDING"
	AppealStatusApproved AppealStatus = "APPROVED"
	AppealStatusRejected AppealStatus = "REJECTED"
)

// AppealType names the sanction kind the appeal asks to reverse.
type AppealType string

const (
	AppealTypeMute AppealType = "MUTE"
	AppealTypeBan  AppealType = "BAN"
)

// Appeal is a user-initiated request to reverse a sanction, resolved by an
// administrator. At most one PENDING appeal may exist per account.
type Appeal struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Ref string `gorm:"size:36;uniqueIndex;not null" json:"ref"`

	UserID    uint    `gorm:"not null;index" json:"user_id"`
	User      *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RecordRef *string `gorm:"size:36" json:"record_ref,omitempty"` // optional target moderation record

	Type          AppealType   `gorm:"size:10;not null" json:"type"`
	Reason        string       `gorm:"type:text;not null" json:"reason"`
	Status        AppealStatus `gorm:"size:10;default:'PENDING';index" json:"status"`
	AdminResponse string       `gorm:"type:text;default:''" json:"admin_response,omitempty"`
	ResolvedByID  *uint        `json:"resolved_by_id,omitempty"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
