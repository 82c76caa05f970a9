package models

import "time"

// Project represents the projects table
type Project struct {
	ProjectID   int           `gorm:"primaryKey;column:project_id" json:"project_id"`
	Title       string        `gorm:"column:title" json:"title"`
	Description string        `gorm:"column:description" json:"description"`
	Status      ProjectStatus `gorm:"column:status" json:"status"`
	AdvisorID   *int          `gorm:"column:advisor_id" json:"advisor_id,omitempty"`
	OfficerID   *int          `gorm:"column:officer_id" json:"officer_id,omitempty"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time    `gorm:"column:updated_at" json:"updated_at"`

	Advisor *User           `gorm:"foreignKey:AdvisorID;references:UserID" json:"advisor,omitempty"`
	Officer *User           `gorm:"foreignKey:OfficerID;references:UserID" json:"officer,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;references:ProjectID" json:"members,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ProjectMember represents the project_members table (student enrollment)
type ProjectMember struct {
	MemberID  int       `gorm:"primaryKey;column:member_id" json:"member_id"`
	ProjectID int       `gorm:"column:project_id;uniqueIndex:uq_project_student" json:"project_id"`
	UserID    int       `gorm:"column:user_id;uniqueIndex:uq_project_student" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
