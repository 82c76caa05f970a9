package models

import "time"

// Resource is a general file record not tied to any project. Project
// officers manage all resources; everyone authenticated can read them.
type Resource struct {
	ResourceID  int        `gorm:"primaryKey;column:resource_id" json:"resource_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	FileID      int        `gorm:"column:file_id" json:"file_id"`
	UploadedBy  int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	File     *FileUpload `gorm:"foreignKey:FileID;references:FileID" json:"file,omitempty"`
	Uploader *User       `gorm:"foreignKey:UploadedBy;references:UserID" json:"uploader,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}
