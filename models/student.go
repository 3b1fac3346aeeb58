package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is owned by account management; the matching engine reads it and
// only ever writes the needs column (tag-extraction merge).
type Student struct {
	ID        string                      `gorm:"primaryKey;size:36" json:"id"`
	ParentID  string                      `gorm:"size:36;index;not null" json:"parent_id"`
	Name      string                      `gorm:"size:120;not null" json:"name"`
	Grade     string                      `gorm:"size:20" json:"grade"`
	Needs     datatypes.JSONSlice[string] `json:"needs"`
	Languages datatypes.JSONSlice[string] `json:"languages"`
	Timezone  string                      `gorm:"size:60" json:"timezone"`
	Budget    *float64                    `json:"budget,omitempty"` // hourly, in account currency; nil = no budget set
	Narrative string                      `gorm:"type:text" json:"narrative,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
