package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"fyp-management-api/models"
	"fyp-management-api/services"
	"fyp-management-api/utils"

	"github.com/gin-gonic/gin"
)

// ListResources returns all general resources; readable by any
// authenticated account.
func ListResources(c *gin.Context) {
	var resources []models.Resource
	if err := getDB().Preload("File").Preload("Uploader").
		Where("delete_at IS NULL").
		Order("create_at DESC").Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list resources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// CreateResource uploads a file into the public resources bucket and
// records it. Officer only (routes). The file transfer happens before
// any row exists.
func CreateResource(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	db := getDB()

	upload, err := services.StoreFile(db, fh, models.BucketResources, p.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
		}
		return
	}

	resource := models.Resource{
		Title:       utils.SanitizeInput(title),
		Description: utils.SanitizeInput(c.PostForm("description")),
		FileID:      upload.FileID,
		UploadedBy:  p.UserID,
		CreateAt:    time.Now(),
	}
	if err := db.Create(&resource).Error; err != nil {
		// keep the store consistent: no row, no file
		if rmErr := services.RemoveFile(db, upload); rmErr != nil {
			log.Printf("cleanup resource file %d: %v", upload.FileID, rmErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

// UpdateResource edits title/description. Officer only (routes).
func UpdateResource(c *gin.Context) {
	resourceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()

	var resource models.Resource
	if err := db.Where("resource_id = ? AND delete_at IS NULL", resourceID).
		First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	now := time.Now()
	if req.Title != nil {
		resource.Title = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		resource.Description = utils.SanitizeInput(*req.Description)
	}
	resource.UpdateAt = &now

	if err := db.Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update resource"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// DeleteResource soft-deletes the record and removes the stored file.
// Officer only (routes).
func DeleteResource(c *gin.Context) {
	resourceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := getDB()

	var resource models.Resource
	if err := db.Preload("File").
		Where("resource_id = ? AND delete_at IS NULL", resourceID).
		First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	now := time.Now()
	if err := db.Model(&resource).Update("delete_at", &now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete resource"})
		return
	}

	if resource.File != nil {
		if err := services.RemoveFile(db, resource.File); err != nil {
			log.Printf("remove resource file %d: %v", resource.FileID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DownloadResource streams a resource file to any authenticated caller.
func DownloadResource(c *gin.Context) {
	resourceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var resource models.Resource
	if err := getDB().Preload("File").
		Where("resource_id = ? AND delete_at IS NULL", resourceID).
		First(&resource).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	if resource.File == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource has no file"})
		return
	}

	c.FileAttachment(resource.File.StoredPath, resource.File.OriginalName)
}
