package models

import "time"

// Profile mirrors the account-management user record. Auth lives outside
// this service; we only join against it for display names.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:120" json:"email"`
	Role      string    `gorm:"size:20;not null" json:"role"` // "parent" | "advocate" | "admin"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
