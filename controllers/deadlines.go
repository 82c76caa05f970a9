package controllers

import (
	"net/http"
	"time"

	"fyp-management-api/models"
	"fyp-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListDeadlines returns a project's phase deadlines, visible to anyone
// with project access.
func ListDeadlines(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if !services.ProjectAccess(p, facts) {
		forbidden(c)
		return
	}

	var deadlines []models.PhaseDeadline
	if err := getDB().Where("project_id = ?", projectID).
		Order("phase").Find(&deadlines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deadlines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deadlines": deadlines})
}

type DeadlineRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// UpsertDeadline creates or moves the deadline for (project, phase) and
// notifies every enrolled student. Officer or assigned advisor only.
func UpsertDeadline(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	phase := models.Phase(c.Param("phase"))
	if !phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase"})
		return
	}

	var req DeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if !services.CanManageDeadline(p, facts) {
		forbidden(c)
		return
	}

	db := getDB()

	var project models.Project
	if err := db.Select("project_id", "title").
		First(&project, "project_id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	now := time.Now()
	var deadline models.PhaseDeadline
	var created []models.Notification

	err := db.Transaction(func(tx *gorm.DB) error {
		// one row per (project, phase): update in place or insert
		err := tx.Where("project_id = ? AND phase = ?", projectID, phase).
			First(&deadline).Error
		switch {
		case err == nil:
			deadline.DueDate = req.DueDate
			deadline.UpdatedAt = &now
			if err := tx.Save(&deadline).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			deadline = models.PhaseDeadline{
				ProjectID: projectID,
				Phase:     phase,
				DueDate:   req.DueDate,
				CreatedBy: p.UserID,
				CreatedAt: now,
			}
			if err := tx.Create(&deadline).Error; err != nil {
				return err
			}
		default:
			return err
		}

		event := services.DeadlineSet{
			ProjectID:    projectID,
			ProjectTitle: project.Title,
			Phase:        phase,
			DueDate:      req.DueDate,
			ActorID:      p.UserID,
		}
		var txErr error
		created, txErr = dispatcher.Dispatch(tx, event, facts)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save deadline"})
		return
	}

	dispatcher.Publish(created)

	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// DeleteDeadline removes the deadline row for (project, phase).
// Officer or assigned advisor only.
func DeleteDeadline(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	phase := models.Phase(c.Param("phase"))
	if !phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase"})
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if !services.CanManageDeadline(p, facts) {
		forbidden(c)
		return
	}

	result := getDB().Where("project_id = ? AND phase = ?", projectID, phase).
		Delete(&models.PhaseDeadline{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete deadline"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "deadline not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
