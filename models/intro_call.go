package models

import "time"

// IntroCall is a requested or scheduled introductory meeting tied to a
// proposal. Every intro request creates a new row; rows are never upserted.
type IntroCall struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ProposalID  string     `gorm:"size:36;index;not null" json:"proposal_id"`
	ScheduledAt *time.Time `json:"scheduled_at"` // nil while only requested
	Channel     string     `gorm:"size:30;not null;default:zoom" json:"channel"`
	MeetingLink string     `gorm:"size:500" json:"meeting_link,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   string     `gorm:"size:36;not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
