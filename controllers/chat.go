package controllers

import (
	"net/http"
	"time"

	"fyp-management-api/models"
	"fyp-management-api/services"
	"fyp-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListChatMessages returns a project phase's chat, oldest first.
// Ordering is by server-assigned timestamps.
func ListChatMessages(c *gin.Context) {
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
	if !services.CanChat(p, facts) {
		forbidden(c)
		return
	}

	var messages []models.ChatMessage
	if err := getDB().Preload("Author").
		Where("project_id = ? AND phase = ?", projectID, phase).
		Order("created_at").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostChatMessage inserts a message and fans out: an advisor's message
// notifies every enrolled student, anyone else's notifies the advisor.
// Connected project participants also get a live push.
func PostChatMessage(c *gin.Context) {
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

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts, ok := projectFactsOr404(c, projectID)
	if !ok {
		return
	}
	if !services.CanChat(p, facts) {
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

	var author models.User
	if err := db.First(&author, "user_id = ?", p.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	message := models.ChatMessage{
		ProjectID: projectID,
		Phase:     phase,
		AuthorID:  p.UserID,
		Text:      utils.SanitizeInput(req.Text),
		CreatedAt: time.Now(),
	}

	var created []models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		event := services.ChatMessagePosted{
			ProjectID:    projectID,
			ProjectTitle: project.Title,
			Phase:        phase,
			AuthorID:     p.UserID,
			AuthorName:   author.FullName(),
			Preview:      truncate(message.Text, 80),
		}
		var txErr error
		created, txErr = dispatcher.Dispatch(tx, event, facts)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		return
	}

	dispatcher.Publish(created)

	message.Author = &author
	if hub != nil {
		hub.SendTo(facts.ParticipantIDs(), services.PushMessage{Kind: "chat", Data: message})
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// UpdateChatMessage edits a message; author only.
func UpdateChatMessage(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	messageID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()

	var message models.ChatMessage
	if err := db.First(&message, "message_id = ?", messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	if !services.IsAuthor(p, message.AuthorID) {
		forbidden(c)
		return
	}

	now := time.Now()
	message.Text = utils.SanitizeInput(req.Text)
	message.UpdatedAt = &now

	if err := db.Save(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// DeleteChatMessage removes a message; author only.
func DeleteChatMessage(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	messageID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := getDB()

	var message models.ChatMessage
	if err := db.First(&message, "message_id = ?", messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	if !services.IsAuthor(p, message.AuthorID) {
		forbidden(c)
		return
	}

	if err := db.Delete(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
