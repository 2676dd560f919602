package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an authenticated account.
type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:64"`
	PasswordHash string   `gorm:"size:255"`
	Resumes      []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume is one account-scoped resume row. The primary key is the
// client-generated record UUID, so a migrated guest record keeps its
// identity. UpdatedAt is written explicitly by the store layer (the
// facade owns timestamp semantics), hence autoUpdateTime is disabled.
type Resume struct {
	ID           string         `gorm:"primaryKey;size:36"`
	UserID       uint           `gorm:"index"`
	User         User           `gorm:"constraint:OnDelete:CASCADE"`
	Title        string         `gorm:"size:255"`
	Folder       string         `gorm:"size:128"`
	Content      datatypes.JSON `gorm:"type:jsonb"`
	PdfObjectKey string         `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index;autoUpdateTime:false"`
}

// GuestCollection is the local tier: one row per namespace key holding
// the whole serialized record collection, localStorage style.
type GuestCollection struct {
	Key     string         `gorm:"primaryKey;size:128"`
	Payload datatypes.JSON
}
