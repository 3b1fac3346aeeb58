package models

import (
	"time"

	"gorm.io/datatypes"
)

// Proposal statuses. accepted and declined are terminal.
const (
	StatusProposed       = "proposed"
	StatusIntroRequested = "intro_requested"
	StatusScheduled      = "scheduled"
	StatusAccepted       = "accepted"
	StatusDeclined       = "declined"
)

// MatchProposal is a scored candidate pairing of one student with one
// advocate. Score and reason are set once at creation and never recomputed;
// only status, decline_reason, version and updated_at mutate afterwards,
// and only through the matching engine.
type MatchProposal struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	StudentID     string            `gorm:"size:36;index;not null" json:"student_id"`
	AdvocateID    string            `gorm:"size:36;index;not null" json:"advocate_id"`
	ParentID      string            `gorm:"size:36;index;not null" json:"parent_id"`
	Score         float64           `gorm:"not null" json:"score"`
	Status        string            `gorm:"size:20;not null;default:proposed" json:"status"`
	Version       int               `gorm:"not null;default:0" json:"version"` // optimistic concurrency token
	Reason        datatypes.JSONMap `json:"reason"`
	DeclineReason string            `gorm:"type:text" json:"decline_reason,omitempty"`
	CreatedBy     string            `gorm:"size:36;not null" json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Student  *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Advocate *AdvocateProfile `gorm:"foreignKey:AdvocateID" json:"advocate,omitempty"`
	Creator  *Profile         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// Terminal reports whether status admits no further transitions.
func (p *MatchProposal) Terminal() bool {
	return p.Status == StatusAccepted || p.Status == StatusDeclined
}
