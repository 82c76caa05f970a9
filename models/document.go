package models

import (
	"time"
)

type Document struct {
	DocumentID    int            `gorm:"primaryKey;column:document_id" json:"document_id"`
	ProjectID     int            `gorm:"column:project_id" json:"project_id"`
	Phase         Phase          `gorm:"column:phase" json:"phase"`
	Title         string         `gorm:"column:title" json:"title"`
	FileID        *int           `gorm:"column:file_id" json:"file_id,omitempty"`
	SubmittedBy   int            `gorm:"column:submitted_by" json:"submitted_by"`
	Status        DocumentStatus `gorm:"column:status" json:"status"`
	ReviewedBy    *int           `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewComment *string        `gorm:"column:review_comment" json:"review_comment,omitempty"`
	SubmittedAt   time.Time      `gorm:"column:submitted_at" json:"submitted_at"`
	ReviewedAt    *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	UpdateAt      *time.Time     `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	File      *FileUpload `gorm:"foreignKey:FileID;references:FileID" json:"file,omitempty"`
	Submitter *User       `gorm:"foreignKey:SubmittedBy;references:UserID" json:"submitter,omitempty"`
	Reviewer  *User       `gorm:"foreignKey:ReviewedBy;references:UserID" json:"reviewer,omitempty"`
}

// DocumentComment is a comment on a specific submitted document.
type DocumentComment struct {
	CommentID  int        `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	DocumentID int        `gorm:"column:document_id" json:"document_id"`
	AuthorID   int        `gorm:"column:author_id" json:"author_id"`
	Text       string     `gorm:"column:text" json:"text"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// ProjectComment is a project-level general comment, kept in its own
// table rather than overloading the document comment row.
type ProjectComment struct {
	CommentID int        `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	ProjectID int        `gorm:"column:project_id" json:"project_id"`
	AuthorID  int        `gorm:"column:author_id" json:"author_id"`
	Text      string     `gorm:"column:text" json:"text"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName overrides
func (Document) TableName() string {
	return "documents"
}

func (DocumentComment) TableName() string {
	return "document_comments"
}

func (ProjectComment) TableName() string {
	return "project_comments"
}
