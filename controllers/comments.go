package controllers

import (
	"net/http"
	"time"

	"fyp-management-api/models"
	"fyp-management-api/services"
	"fyp-management-api/utils"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListDocumentComments returns the comment thread of a document.
func ListDocumentComments(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	_, facts, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	// The comment thread is project-scoped conversation: every project
	// participant reads it, same as posting to it.
	if !services.CanComment(p, facts) {
		forbidden(c)
		return
	}

	var comments []models.DocumentComment
	if err := getDB().Preload("Author").
		Where("document_id = ?", documentID).
		Order("created_at").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateDocumentComment adds a comment for any participant with access
// to the document's project.
func CreateDocumentComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, facts, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	if !services.CanComment(p, facts) {
		forbidden(c)
		return
	}

	comment := models.DocumentComment{
		DocumentID: documentID,
		AuthorID:   p.UserID,
		Text:       utils.SanitizeInput(req.Text),
		CreatedAt:  time.Now(),
	}
	if err := getDB().Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListProjectComments returns a project's general comment thread.
func ListProjectComments(c *gin.Context) {
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

	var comments []models.ProjectComment
	if err := getDB().Preload("Author").
		Where("project_id = ?", projectID).
		Order("created_at").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateProjectComment adds a project-level comment.
func CreateProjectComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if !services.CanComment(p, facts) {
		forbidden(c)
		return
	}

	comment := models.ProjectComment{
		ProjectID: projectID,
		AuthorID:  p.UserID,
		Text:      utils.SanitizeInput(req.Text),
		CreatedAt: time.Now(),
	}
	if err := getDB().Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// UpdateDocumentComment edits a comment; author only.
func UpdateDocumentComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()

	var comment models.DocumentComment
	if err := db.First(&comment, "comment_id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if !services.IsAuthor(p, comment.AuthorID) {
		forbidden(c)
		return
	}

	now := time.Now()
	comment.Text = utils.SanitizeInput(req.Text)
	comment.UpdatedAt = &now

	if err := db.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteDocumentComment removes a comment; author only.
func DeleteDocumentComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := getDB()

	var comment models.DocumentComment
	if err := db.First(&comment, "comment_id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if !services.IsAuthor(p, comment.AuthorID) {
		forbidden(c)
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateProjectComment edits a project comment; author only.
func UpdateProjectComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()

	var comment models.ProjectComment
	if err := db.First(&comment, "comment_id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if !services.IsAuthor(p, comment.AuthorID) {
		forbidden(c)
		return
	}

	now := time.Now()
	comment.Text = utils.SanitizeInput(req.Text)
	comment.UpdatedAt = &now

	if err := db.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteProjectComment removes a project comment; author only.
func DeleteProjectComment(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := getDB()

	var comment models.ProjectComment
	if err := db.First(&comment, "comment_id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if !services.IsAuthor(p, comment.AuthorID) {
		forbidden(c)
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
