// Package media manages uploaded assets referenced from funnel elements
// (images, video thumbnails) and page settings (favicon).
package media

import (
	"errors"
	"strings"

	"github.com/funnelforge/api/internal/database"
	"github.com/funnelforge/api/internal/models"
	"github.com/funnelforge/api/internal/response"
	"github.com/funnelforge/api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var altPolicy = bluemonday.StrictPolicy()

const (
	maxFileSize  = int64(10 * 1024 * 1024)  // 10MB
	maxVideoSize = int64(100 * 1024 * 1024) // 100MB
)

func UploadMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required", nil)
	}

	maxSize := maxFileSize
	if strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
		maxSize = maxVideoSize
	}
	if file.Size > maxSize {
		return response.BadRequest(c, "File too large", map[string]interface{}{
			"max_size_mb":  maxSize / (1024 * 1024),
			"file_size_mb": file.Size / (1024 * 1024),
		})
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return response.InternalError(c, "Failed to upload file: "+err.Error())
	}

	mediaFile := models.MediaFile{
		OwnerID:  userID,
		FileName: file.Filename,
		URL:      url,
		Type:     file.Header.Get("Content-Type"),
		Size:     file.Size,
		Alt:      altPolicy.Sanitize(c.FormValue("alt", "")),
	}

	if err := database.DB.Create(&mediaFile).Error; err != nil {
		utils.DeleteFile(url)
		return response.InternalError(c, "Failed to save media metadata")
	}

	return response.Created(c, mediaFile, "Media uploaded successfully")
}

func ListMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	q := database.DB.Where("owner_id = ?", userID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type LIKE ?", t+"%")
	}

	var files []models.MediaFile
	if err := q.Order("created_at DESC").Find(&files).Error; err != nil {
		return response.InternalError(c, "Failed to list media")
	}

	return response.Success(c, files, "")
}

func UpdateMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body struct {
		Alt *string `json:"alt"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var mediaFile models.MediaFile
	err := database.DB.Where("id = ? AND owner_id = ?", c.Params("id"), userID).
		First(&mediaFile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Media file")
	}
	if err != nil {
		return response.InternalError(c, "Failed to load media file")
	}

	if body.Alt != nil {
		mediaFile.Alt = altPolicy.Sanitize(*body.Alt)
	}
	if err := database.DB.Save(&mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to update media file")
	}

	return response.Success(c, mediaFile, "Media updated successfully")
}

func DeleteMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var mediaFile models.MediaFile
	err := database.DB.Where("id = ? AND owner_id = ?", c.Params("id"), userID).
		First(&mediaFile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Media file")
	}
	if err != nil {
		return response.InternalError(c, "Failed to load media file")
	}

	if err := utils.DeleteFile(mediaFile.URL); err != nil {
		return response.InternalError(c, "Failed to delete file from storage")
	}
	if err := database.DB.Delete(&mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to delete media metadata")
	}

	return response.Success(c, nil, "Media deleted successfully")
}
