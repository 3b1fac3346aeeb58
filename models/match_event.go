package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event types, one per proposal transition.
const (
	EventProposalCreated  = "proposal_created"
	EventIntroRequested   = "intro_requested"
	EventIntroScheduled   = "intro_scheduled"
	EventProposalAccepted = "proposal_accepted"
	EventProposalDeclined = "proposal_declined"
)

// MatchEvent is an append-only audit row. Events are never updated or
// deleted; the log is the source of truth for proposal history.
type MatchEvent struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	ProposalID string            `gorm:"size:36;index;not null" json:"proposal_id"`
	EventType  string            `gorm:"size:40;not null" json:"event_type"`
	ActorID    string            `gorm:"size:36;not null" json:"actor_id"`
	Details    datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`

	Actor *Profile `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
