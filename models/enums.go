package models

// Role determines the access predicate class of an account.
type Role string

const (
	RoleStudent        Role = "student"
	RoleAdvisor        Role = "advisor"
	RoleProjectOfficer Role = "project_officer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdvisor, RoleProjectOfficer:
		return true
	}
	return false
}

// Phase is one of four sequential project milestones.
type Phase string

const (
	Phase1 Phase = "phase1"
	Phase2 Phase = "phase2"
	Phase3 Phase = "phase3"
	Phase4 Phase = "phase4"
)

func (p Phase) Valid() bool {
	switch p {
	case Phase1, Phase2, Phase3, Phase4:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectSuspended ProjectStatus = "suspended"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectSuspended:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a document status change is allowed.
// Only pending documents move, and only to a terminal status.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	if s != DocumentPending {
		return false
	}
	return next == DocumentApproved || next == DocumentRejected
}

type NotificationType string

const (
	NotifyDocumentSubmission NotificationType = "document_submission"
	NotifyDocumentReview     NotificationType = "document_review"
	NotifyProjectUpdate      NotificationType = "project_update"
	NotifyDeadlineReminder   NotificationType = "deadline_reminder"
	NotifyProjectAssignment  NotificationType = "project_assignment"
	NotifyGeneral            NotificationType = "general"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyDocumentSubmission, NotifyDocumentReview, NotifyProjectUpdate,
		NotifyDeadlineReminder, NotifyProjectAssignment, NotifyGeneral:
		return true
	}
	return false
}
