package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaFile is an uploaded asset (image, favicon) referenced by funnel
// elements or page settings.
type MediaFile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OwnerID   uint           `gorm:"index" json:"owner_id"`
	FileName  string         `gorm:"size:255" json:"file_name"`
	URL       string         `gorm:"size:500" json:"url"`
	Type      string         `gorm:"size:100;index" json:"type"`
	Size      int64          `json:"size"`
	Alt       string         `gorm:"size:255" json:"alt"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
