package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdvocateProfile is read-only from the matching engine's perspective.
type AdvocateProfile struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	Name            string                      `gorm:"size:120;not null" json:"name"`
	Bio             string                      `gorm:"type:text" json:"bio,omitempty"`
	Tags            datatypes.JSONSlice[string] `json:"tags"` // specializations, closed vocabulary
	Languages       datatypes.JSONSlice[string] `json:"languages"`
	Timezone        string                      `gorm:"size:60" json:"timezone"`
	HourlyRate      float64                     `json:"hourly_rate"`
	ExperienceYears int                         `json:"experience_years"`
	MaxCaseload     int                         `gorm:"not null;default:1" json:"max_caseload"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}
