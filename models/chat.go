package models

import "time"

// ChatMessage is a phase-scoped message on a project's discussion board.
type ChatMessage struct {
	MessageID int        `gorm:"primaryKey;column:message_id" json:"message_id"`
	ProjectID int        `gorm:"column:project_id" json:"project_id"`
	Phase     Phase      `gorm:"column:phase" json:"phase"`
	AuthorID  int        `gorm:"column:author_id" json:"author_id"`
	Text      string     `gorm:"column:text" json:"text"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
