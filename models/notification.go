package models

import "time"

type Notification struct {
	NotificationID   int              `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID           int              `gorm:"column:user_id" json:"user_id"`
	Title            string           `gorm:"column:title" json:"title"`
	Message          string           `gorm:"column:message" json:"message"`
	Type             NotificationType `gorm:"column:type" json:"type"`
	TargetRole       *Role            `gorm:"column:target_role" json:"target_role,omitempty"`
	RelatedProjectID *int             `gorm:"column:related_project_id" json:"related_project_id,omitempty"`
	IsRead           bool             `gorm:"column:is_read" json:"is_read"`
	CreateAt         time.Time        `gorm:"column:create_at" json:"created_at"`
	UpdateAt         *time.Time       `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
