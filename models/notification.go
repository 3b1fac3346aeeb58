package models

import "time"

// Notification is a fire-and-forget record; delivery (push/email) happens
// outside this service. ProposalID is a weak back-reference, not ownership.
type Notification struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;index;not null" json:"user_id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	ProposalID string    `gorm:"size:36;index" json:"proposal_id,omitempty"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
