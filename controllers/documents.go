package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"fyp-management-api/config"
	"fyp-management-api/models"
	"fyp-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadDocument creates a phased document submission. The file, when
// present, is transferred before the document row exists; a failed
// transfer leaves no row behind. Student role only (routes).
func UploadDocument(c *gin.Context) {
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
	if !services.CanSubmitDocument(p, facts) {
		forbidden(c)
		return
	}

	title := c.PostForm("title")
	phase := models.Phase(c.PostForm("phase"))
	if title == "" || !phase.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and a valid phase are required"})
		return
	}

	db := getDB()

	var project models.Project
	if err := db.Select("project_id", "title").
		First(&project, "project_id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	var submitter models.User
	if err := db.First(&submitter, "user_id = ?", p.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	var upload *models.FileUpload
	if fh, err := c.FormFile("file"); err == nil {
		upload, err = services.StoreFile(db, fh, models.BucketDocuments, p.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedFileType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			}
			return
		}
	}

	document := models.Document{
		ProjectID:   projectID,
		Phase:       phase,
		Title:       title,
		SubmittedBy: p.UserID,
		Status:      models.DocumentPending,
		SubmittedAt: time.Now(),
	}
	if upload != nil {
		document.FileID = &upload.FileID
	}

	var created []models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&document).Error; err != nil {
			return err
		}

		event := services.DocumentSubmitted{
			ProjectID:     projectID,
			ProjectTitle:  project.Title,
			DocumentTitle: document.Title,
			Phase:         phase,
			SubmitterID:   p.UserID,
			SubmitterName: submitter.FullName(),
		}
		var txErr error
		created, txErr = dispatcher.Dispatch(tx, event, facts)
		return txErr
	})
	if err != nil {
		// keep the store consistent: no document row, no file
		if upload != nil {
			if rmErr := services.RemoveFile(db, upload); rmErr != nil {
				log.Printf("cleanup document file %d: %v", upload.FileID, rmErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit document"})
		return
	}

	dispatcher.Publish(created)

	c.JSON(http.StatusCreated, gin.H{"document": document})
}

// ListProjectDocuments returns a project's documents visible to the
// caller: officers and the advisor see all, students their own.
func ListProjectDocuments(c *gin.Context) {
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

	query := getDB().Preload("File").Preload("Submitter").Preload("Reviewer").
		Where("project_id = ?", projectID)

	if p.Role == models.RoleStudent {
		query = query.Where("submitted_by = ?", p.UserID)
	}

	var documents []models.Document
	if err := query.Order("submitted_at DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

func loadDocument(c *gin.Context, documentID int) (models.Document, services.ProjectFacts, bool) {
	var document models.Document
	if err := getDB().Preload("File").
		First(&document, "document_id = ?", documentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return models.Document{}, services.ProjectFacts{}, false
	}

	facts, ok := projectFactsOr404(c, document.ProjectID)
	if !ok {
		return models.Document{}, services.ProjectFacts{}, false
	}
	return document, facts, true
}

// GetDocument returns one document for the submitter, the project's
// advisor, or an officer.
func GetDocument(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	document, facts, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	if !services.CanReadDocument(p, facts, document) {
		forbidden(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// UpdateDocument lets the submitter retitle or replace the file while
// the document is still pending.
func UpdateDocument(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	document, _, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	if document.SubmittedBy != p.UserID {
		forbidden(c)
		return
	}
	if !services.CanEditPendingDocument(p, document) {
		c.JSON(http.StatusConflict, gin.H{"error": "document has already been reviewed"})
		return
	}

	db := getDB()

	if title := c.PostForm("title"); title != "" {
		document.Title = title
	}

	var upload *models.FileUpload
	oldFile := document.File
	if fh, err := c.FormFile("file"); err == nil {
		upload, err = services.StoreFile(db, fh, models.BucketDocuments, p.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedFileType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			}
			return
		}
		document.FileID = &upload.FileID
		document.File = nil
	}

	now := time.Now()
	document.UpdateAt = &now

	if err := db.Save(&document).Error; err != nil {
		// the document still points at its old file; drop the new one
		if upload != nil {
			if rmErr := services.RemoveFile(db, upload); rmErr != nil {
				log.Printf("cleanup document file %d: %v", upload.FileID, rmErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update document"})
		return
	}

	// the old file is unreferenced only once the save has committed
	if upload != nil && oldFile != nil {
		if err := services.RemoveFile(db, oldFile); err != nil {
			log.Printf("replace document %d file: %v", document.DocumentID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// errAlreadyReviewed marks a lost race on the status flip.
var errAlreadyReviewed = errors.New("document already reviewed")

type ReviewRequest struct {
	Status   models.DocumentStatus `json:"status" binding:"required"`
	Feedback string                `json:"feedback"`
}

// ReviewDocument performs the pending -> approved/rejected transition.
// The status flip is a conditional update guarded on the row still being
// pending, so two concurrent reviewers cannot both win; the loser gets a
// conflict. Fan-out runs in the same transaction as the flip.
func ReviewDocument(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.DocumentPending.CanTransitionTo(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	document, facts, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	if !services.CanReviewDocument(p, facts) {
		forbidden(c)
		return
	}

	db := getDB()

	var project models.Project
	if err := db.Select("project_id", "title").
		First(&project, "project_id = ?", document.ProjectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}

	now := time.Now()
	var created []models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Document{}).
			Where("document_id = ? AND status = ?", documentID, models.DocumentPending).
			Updates(map[string]any{
				"status":         req.Status,
				"reviewed_by":    p.UserID,
				"review_comment": req.Feedback,
				"reviewed_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errAlreadyReviewed
		}

		event := services.DocumentReviewed{
			ProjectID:     document.ProjectID,
			ProjectTitle:  project.Title,
			DocumentTitle: document.Title,
			SubmitterID:   document.SubmittedBy,
			ReviewerID:    p.UserID,
			Decision:      req.Status,
			Feedback:      req.Feedback,
		}
		var txErr error
		created, txErr = dispatcher.Dispatch(tx, event, facts)
		return txErr
	})
	if err != nil {
		if errors.Is(err, errAlreadyReviewed) {
			c.JSON(http.StatusConflict, gin.H{"error": "document has already been reviewed"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review document"})
		}
		return
	}

	dispatcher.Publish(created)
	go emailReviewOutcome(document, project.Title, req.Status, req.Feedback)

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"status":      req.Status,
	})
}

// emailReviewOutcome sends the submitter an email copy of the decision.
// Best-effort: the review has already committed.
func emailReviewOutcome(document models.Document, projectTitle string, status models.DocumentStatus, feedback string) {
	var submitter models.User
	if err := getDB().First(&submitter, "user_id = ?", document.SubmittedBy).Error; err != nil {
		log.Printf("review mail: load submitter %d: %v", document.SubmittedBy, err)
		return
	}

	body := fmt.Sprintf("<p>Your document <b>%s</b> on project <b>%s</b> was <b>%s</b>.</p>",
		document.Title, projectTitle, status)
	if feedback != "" {
		body += fmt.Sprintf("<p>Feedback: %s</p>", feedback)
	}

	if err := config.SendMail([]string{submitter.Email}, "Document reviewed", body); err != nil {
		log.Printf("review mail to %s: %v", submitter.Email, err)
	}
}

// DownloadDocument streams the stored file to an authorized caller.
func DownloadDocument(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	documentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	document, facts, ok := loadDocument(c, documentID)
	if !ok {
		return
	}
	if !services.CanReadDocument(p, facts, document) {
		forbidden(c)
		return
	}
	if document.File == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document has no file"})
		return
	}

	c.FileAttachment(document.File.StoredPath, document.File.OriginalName)
}
