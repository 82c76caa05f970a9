package services

import (
	"fyp-management-api/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Principal is the acting account for a request, as established by the
// auth middleware.
type Principal struct {
	UserID int
	Role   models.Role
}

// ProjectFacts is the relationship snapshot every project-scoped policy
// decision is made against. It is loaded from the projects and
// project_members tables only, never through a policy-filtered view, so
// predicates cannot recurse into the tables they protect.
type ProjectFacts struct {
	ProjectID  int
	AdvisorID  *int
	OfficerID  *int
	StudentIDs []int
}

func (f ProjectFacts) IsAdvisor(userID int) bool {
	return f.AdvisorID != nil && *f.AdvisorID == userID
}

func (f ProjectFacts) IsOfficer(userID int) bool {
	return f.OfficerID != nil && *f.OfficerID == userID
}

func (f ProjectFacts) IsEnrolled(userID int) bool {
	return lo.Contains(f.StudentIDs, userID)
}

// ParticipantIDs returns every account attached to the project: enrolled
// students, the advisor and the officer, deduplicated.
func (f ProjectFacts) ParticipantIDs() []int {
	ids := make([]int, 0, len(f.StudentIDs)+2)
	ids = append(ids, f.StudentIDs...)
	if f.AdvisorID != nil {
		ids = append(ids, *f.AdvisorID)
	}
	if f.OfficerID != nil {
		ids = append(ids, *f.OfficerID)
	}
	return lo.Uniq(ids)
}

// LoadProjectFacts reads the relationship snapshot for a project.
// Returns gorm.ErrRecordNotFound if the project does not exist.
func LoadProjectFacts(db *gorm.DB, projectID int) (ProjectFacts, error) {
	var project models.Project
	if err := db.Select("project_id", "advisor_id", "officer_id").
		First(&project, "project_id = ?", projectID).Error; err != nil {
		return ProjectFacts{}, err
	}

	var studentIDs []int
	if err := db.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &studentIDs).Error; err != nil {
		return ProjectFacts{}, err
	}

	return ProjectFacts{
		ProjectID:  projectID,
		AdvisorID:  project.AdvisorID,
		OfficerID:  project.OfficerID,
		StudentIDs: studentIDs,
	}, nil
}

// ProjectAccess is the derived visibility predicate for project-scoped
// records: the assigned advisor, the assigned officer, any enrolled
// student, or any project-officer account.
func ProjectAccess(p Principal, f ProjectFacts) bool {
	if p.Role == models.RoleProjectOfficer {
		return true
	}
	return f.IsAdvisor(p.UserID) || f.IsOfficer(p.UserID) || f.IsEnrolled(p.UserID)
}

// CanManageProject gates project updates: assigned advisor, assigned
// officer, or any officer-role account.
func CanManageProject(p Principal, f ProjectFacts) bool {
	if p.Role == models.RoleProjectOfficer {
		return true
	}
	return f.IsAdvisor(p.UserID) || f.IsOfficer(p.UserID)
}

// CanManageMembers gates membership rows; officer role only.
func CanManageMembers(p Principal) bool {
	return p.Role == models.RoleProjectOfficer
}

// CanManageDeadline gates phase deadline create/update/delete: officer
// role or the project's advisor.
func CanManageDeadline(p Principal, f ProjectFacts) bool {
	return p.Role == models.RoleProjectOfficer || f.IsAdvisor(p.UserID)
}

// CanSubmitDocument requires a student enrolled on the project.
func CanSubmitDocument(p Principal, f ProjectFacts) bool {
	return p.Role == models.RoleStudent && f.IsEnrolled(p.UserID)
}

// CanReadDocument: the submitter, the project's advisor, or officer role.
func CanReadDocument(p Principal, f ProjectFacts, doc models.Document) bool {
	if p.Role == models.RoleProjectOfficer {
		return true
	}
	if doc.SubmittedBy == p.UserID {
		return true
	}
	return f.IsAdvisor(p.UserID)
}

// CanReviewDocument: the project's advisor or any officer-role account.
// Project membership alone never grants review rights.
func CanReviewDocument(p Principal, f ProjectFacts) bool {
	return p.Role == models.RoleProjectOfficer || f.IsAdvisor(p.UserID)
}

// CanEditPendingDocument: the submitter, while the document has not been
// reviewed yet.
func CanEditPendingDocument(p Principal, doc models.Document) bool {
	return doc.SubmittedBy == p.UserID && doc.Status == models.DocumentPending
}

// CanComment and CanChat both require project access.
func CanComment(p Principal, f ProjectFacts) bool {
	return ProjectAccess(p, f)
}

func CanChat(p Principal, f ProjectFacts) bool {
	return ProjectAccess(p, f)
}

// CanManageResource gates resource create/update/delete; officer role
// only. Reads are open to every authenticated principal.
func CanManageResource(p Principal) bool {
	return p.Role == models.RoleProjectOfficer
}

// IsAuthor is the author-only mutation check for comments and chat.
func IsAuthor(p Principal, authorID int) bool {
	return p.UserID == authorID
}
