// Package deploy records publish actions. Publishing marks the funnel
// publicly addressable and ties the deployment to the latest saved version.
package deploy

import (
	"errors"
	"fmt"
	"time"

	"github.com/funnelforge/api/internal/database"
	"github.com/funnelforge/api/internal/funnel"
	"github.com/funnelforge/api/internal/models"
	"gorm.io/gorm"
)

// PublicBaseURL prefixes deployment URLs; main overrides it from config.
var PublicBaseURL = "http://localhost:8080"

var ErrNoVersions = errors.New("funnel has no saved versions to deploy")

// Deploy publishes a funnel: creates a deployment record against the latest
// version, flips is_published and stamps published_at. A failure while
// updating the funnel is recorded on the deployment instead of leaving it
// stuck in 'deploying'.
func Deploy(funnelID string, ownerID uint) (*models.FunnelDeployment, error) {
	f, err := funnel.GetByID(funnelID, ownerID)
	if err != nil {
		return nil, err
	}

	var latest models.FunnelVersion
	err = database.DB.Where("funnel_id = ?", f.ID).
		Order("version_number DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoVersions
	}
	if err != nil {
		return nil, err
	}

	deployment := models.FunnelDeployment{
		FunnelID:   f.ID,
		VersionID:  latest.ID,
		Status:     models.DeploymentDeploying,
		DeployedAt: time.Now(),
	}
	if err := database.DB.Create(&deployment).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	err = database.DB.Model(f).Updates(map[string]interface{}{
		"is_published": true,
		"published_at": now,
	}).Error
	if err != nil {
		database.DB.Model(&deployment).Updates(map[string]interface{}{
			"status":        models.DeploymentFailed,
			"error_message": err.Error(),
		})
		return nil, err
	}

	deployment.Status = models.DeploymentDeployed
	deployment.DeploymentURL = fmt.Sprintf("%s/p/%s", PublicBaseURL, f.Slug)
	if err := database.DB.Save(&deployment).Error; err != nil {
		return nil, err
	}

	return &deployment, nil
}

// GetLatestDeployment returns the most recent deployment, or nil when the
// funnel was never published.
func GetLatestDeployment(funnelID string, ownerID uint) (*models.FunnelDeployment, error) {
	if _, err := funnel.GetByID(funnelID, ownerID); err != nil {
		return nil, err
	}

	var deployment models.FunnelDeployment
	err := database.DB.Where("funnel_id = ?", funnelID).
		Order("deployed_at DESC").First(&deployment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListVersions returns the save history, newest first.
func ListVersions(funnelID string, ownerID uint) ([]models.FunnelVersion, error) {
	if _, err := funnel.GetByID(funnelID, ownerID); err != nil {
		return nil, err
	}

	var versions []models.FunnelVersion
	err := database.DB.Where("funnel_id = ?", funnelID).
		Order("version_number DESC").Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Unpublish takes the funnel off its public URL without touching deployment
// history.
func Unpublish(funnelID string, ownerID uint) error {
	f, err := funnel.GetByID(funnelID, ownerID)
	if err != nil {
		return err
	}

	return database.DB.Model(f).Updates(map[string]interface{}{
		"is_published": false,
	}).Error
}
