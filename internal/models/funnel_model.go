package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Funnel is the stored form of a funnel document. Elements and Settings are
// opaque JSON blobs here; their schema is enforced by the element and
// document packages at the application boundary, not by the database.
type Funnel struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uint           `gorm:"index;uniqueIndex:idx_owner_slug" json:"owner_id"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string         `gorm:"size:255" json:"name"`
	Slug        string         `gorm:"size:255;uniqueIndex:idx_owner_slug" json:"slug"`
	Elements    datatypes.JSON `json:"elements"`
	Settings    datatypes.JSON `json:"settings"`
	Views       int64          `gorm:"default:0" json:"views"`
	Conversions int64          `gorm:"default:0" json:"conversions"`
	Revenue     float64        `gorm:"default:0" json:"revenue"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *Funnel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// ConversionRate is derived, never stored.
func (f *Funnel) ConversionRate() float64 {
	if f.Views == 0 {
		return 0
	}
	return float64(f.Conversions) / float64(f.Views) * 100
}

// FunnelVersion snapshots elements and settings at save time.
type FunnelVersion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FunnelID      string         `gorm:"type:uuid;index" json:"funnel_id"`
	VersionNumber int            `gorm:"index" json:"version_number"`
	Elements      datatypes.JSON `json:"elements"`
	Settings      datatypes.JSON `json:"settings"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
}

type DeploymentStatus string

const (
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentDeployed  DeploymentStatus = "deployed"
	DeploymentFailed    DeploymentStatus = "failed"
)

// FunnelDeployment records one publish action and the public URL it produced.
type FunnelDeployment struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	FunnelID      string           `gorm:"type:uuid;index" json:"funnel_id"`
	VersionID     uint             `json:"version_id"`
	Status        DeploymentStatus `gorm:"size:20;default:'deploying'" json:"status"`
	DeploymentURL string           `gorm:"size:500" json:"deployment_url,omitempty"`
	ErrorMessage  string           `gorm:"type:text" json:"error_message,omitempty"`
	DeployedAt    time.Time        `json:"deployed_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

// FormSubmission stores one visitor submission of a form element on a public
// funnel page.
type FormSubmission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FunnelID  string         `gorm:"type:uuid;index" json:"funnel_id"`
	ElementID string         `gorm:"size:64;index" json:"element_id"`
	Values    datatypes.JSON `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
}
