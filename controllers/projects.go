package controllers

import (
	"fmt"
	"net/http"
	"time"

	"fyp-management-api/models"
	"fyp-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	minProjectMembers = 2
	maxProjectMembers = 4
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AdvisorID   *int   `json:"advisor_id"`
	StudentIDs  []int  `json:"student_ids" binding:"required"`
}

// CreateProject creates a project with its student members and optional
// advisor, then notifies everyone assigned. Officer role only (routes).
func CreateProject(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()

	studentIDs := lo.Uniq(req.StudentIDs)
	if len(studentIDs) < minProjectMembers || len(studentIDs) > maxProjectMembers {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("a project needs %d to %d student members", minProjectMembers, maxProjectMembers),
		})
		return
	}

	var studentCount int64
	if err := db.Model(&models.User{}).
		Where("user_id IN ? AND role = ? AND delete_at IS NULL", studentIDs, models.RoleStudent).
		Count(&studentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify members"})
		return
	}
	if int(studentCount) != len(studentIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all members must be existing student accounts"})
		return
	}

	if req.AdvisorID != nil {
		var advisorCount int64
		if err := db.Model(&models.User{}).
			Where("user_id = ? AND role = ? AND delete_at IS NULL", *req.AdvisorID, models.RoleAdvisor).
			Count(&advisorCount).Error; err != nil || advisorCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "advisor must be an existing advisor account"})
			return
		}
	}

	officerID := p.UserID
	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectActive,
		AdvisorID:   req.AdvisorID,
		OfficerID:   &officerID,
		CreatedAt:   time.Now(),
	}

	var created []models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for _, studentID := range studentIDs {
			member := models.ProjectMember{
				ProjectID: project.ProjectID,
				UserID:    studentID,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}

		facts := services.ProjectFacts{
			ProjectID:  project.ProjectID,
			AdvisorID:  project.AdvisorID,
			OfficerID:  project.OfficerID,
			StudentIDs: studentIDs,
		}
		event := services.ProjectAssigned{
			ProjectID:    project.ProjectID,
			ProjectTitle: project.Title,
			CreatorID:    p.UserID,
		}

		var txErr error
		created, txErr = dispatcher.Dispatch(tx, event, facts)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	dispatcher.Publish(created)

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// ListProjects returns the projects visible to the caller: officers see
// everything, advisors their advised projects, students their own.
func ListProjects(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	db := getDB()
	query := db.Preload("Advisor").Preload("Officer").Preload("Members.User")

	switch p.Role {
	case models.RoleProjectOfficer:
		// all projects
	case models.RoleAdvisor:
		query = query.Where("advisor_id = ?", p.UserID)
	default:
		query = query.Where("project_id IN (?)",
			db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", p.UserID))
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns one project if the caller has project access.
func GetProject(c *gin.Context) {
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

	var project models.Project
	if err := getDB().Preload("Advisor").Preload("Officer").Preload("Members.User").
		First(&project, "project_id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

type UpdateProjectRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	AdvisorID   *int                  `json:"advisor_id"`
}

// UpdateProject mutates title/description/status/advisor. Allowed for
// the assigned advisor, the assigned officer, or any officer account.
func UpdateProject(c *gin.Context) {
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
	if !services.CanManageProject(p, facts) {
		forbidden(c)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	db := getDB()

	var project models.Project
	if err := db.First(&project, "project_id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	now := time.Now()
	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.AdvisorID != nil {
		// reassignment is an officer action
		if p.Role != models.RoleProjectOfficer {
			forbidden(c)
			return
		}
		project.AdvisorID = req.AdvisorID
	}
	project.UpdatedAt = &now

	if err := db.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// ListMembers returns the student roster of a project.
func ListMembers(c *gin.Context) {
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

	var members []models.ProjectMember
	if err := getDB().Preload("User").
		Where("project_id = ?", projectID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// AddMember enrolls a student. Officer role only (routes); the roster
// stays within the member limit.
func AddMember(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if len(facts.StudentIDs) >= maxProjectMembers {
		c.JSON(http.StatusConflict, gin.H{"error": "project already has the maximum number of members"})
		return
	}
	if facts.IsEnrolled(req.UserID) {
		c.JSON(http.StatusConflict, gin.H{"error": "student is already enrolled"})
		return
	}

	db := getDB()

	var count int64
	if err := db.Model(&models.User{}).
		Where("user_id = ? AND role = ? AND delete_at IS NULL", req.UserID, models.RoleStudent).
		Count(&count).Error; err != nil || count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member must be an existing student account"})
		return
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// RemoveMember drops a student from the roster. Officer role only.
func RemoveMember(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if len(facts.StudentIDs) <= minProjectMembers {
		c.JSON(http.StatusConflict, gin.H{"error": "project cannot drop below the minimum number of members"})
		return
	}

	result := getDB().Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
