package models

import "time"

// Assignment is the durable advocate-parent serving relationship created when
// a proposal is accepted. The pair is unique; re-accepting another proposal
// for the same family is a no-op upsert.
type Assignment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	AdvocateID string    `gorm:"size:36;not null;uniqueIndex:idx_assignment_pair" json:"advocate_id"`
	ParentID   string    `gorm:"size:36;not null;uniqueIndex:idx_assignment_pair" json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
}
