package services

import (
	"fyp-management-api/models"

	"gorm.io/gorm"
)

// Feed page limits. Clients page with limit/offset; the cap keeps a
// single request from dragging the whole history across the wire.
const (
	FeedDefaultLimit = 50
	FeedMaxLimit     = 200
)

// ListNotifications returns one page of the account's feed, newest
// first. Limit is clamped to [1, FeedMaxLimit]; zero means the default.
func ListNotifications(db *gorm.DB, userID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = FeedDefaultLimit
	}
	if limit > FeedMaxLimit {
		limit = FeedMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("create_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// CountUnread returns the account's unread badge count.
func CountUnread(db *gorm.DB, userID int) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Count(&count).Error
	return count, err
}

// MarkNotificationRead flips one notification's read flag. The update is
// scoped to the owning account, so a caller can never flip someone
// else's row; returns false when no row matched.
func MarkNotificationRead(db *gorm.DB, userID, notificationID int) (bool, error) {
	result := db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAllNotificationsRead flips every unread row of the account.
func MarkAllNotificationsRead(db *gorm.DB, userID int) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Update("is_read", true).Error
}
