package controllers

import (
	"net/http"
	"strconv"

	"fyp-management-api/models"
	"fyp-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications returns one page of the caller's feed, newest first.
// Only the recipient ever sees a notification row. Paged with
// limit/offset query params (default 50, capped at 200).
func GetNotifications(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.FeedDefaultLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := services.ListNotifications(getDB(), p.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetUnreadCount returns the caller's unread badge count.
func GetUnreadCount(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	count, err := services.CountUnread(getDB(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead flips one notification's read flag; recipient
// only, and no other row is touched.
func MarkNotificationRead(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	notificationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	updated, err := services.MarkNotificationRead(getDB(), p.UserID, notificationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllNotificationsRead flips every unread row of the caller.
func MarkAllNotificationsRead(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := services.MarkAllNotificationsRead(getDB(), p.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type BroadcastRequest struct {
	Role    models.Role             `json:"role" binding:"required"`
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message" binding:"required"`
	Type    models.NotificationType `json:"type"`
}

// BroadcastToRole fans a notification out to every account holding the
// given role at dispatch time. Officer only (routes). Returns the count
// of notifications created.
func BroadcastToRole(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if req.Type == "" {
		req.Type = models.NotifyGeneral
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification type"})
		return
	}

	var created []models.Notification
	err := getDB().Transaction(func(tx *gorm.DB) error {
		var txErr error
		created, txErr = dispatcher.BroadcastToRole(tx, req.Role, req.Title, req.Message, req.Type)
		return txErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to broadcast"})
		return
	}

	dispatcher.Publish(created)

	c.JSON(http.StatusOK, gin.H{"created": len(created)})
}
