package models

import "time"

// PhaseDeadline represents the phase_deadlines table. One row per
// (project, phase); the due date is replaced in place on update.
type PhaseDeadline struct {
	DeadlineID int        `gorm:"primaryKey;column:deadline_id" json:"deadline_id"`
	ProjectID  int        `gorm:"column:project_id;uniqueIndex:uq_project_phase" json:"project_id"`
	Phase      Phase      `gorm:"column:phase;uniqueIndex:uq_project_phase" json:"phase"`
	DueDate    time.Time  `gorm:"column:due_date" json:"due_date"`
	CreatedBy  int        `gorm:"column:created_by" json:"created_by"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PhaseDeadline) TableName() string {
	return "phase_deadlines"
}
