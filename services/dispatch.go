package services

import (
	"fmt"
	"time"

	"fyp-management-api/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Draft is one notification to be inserted for an event recipient.
type Draft struct {
	UserID     int
	Title      string
	Message    string
	Type       models.NotificationType
	TargetRole *models.Role
	ProjectID  *int
}

// Event is a committed state change that fans out notifications. Drafts
// computes the recipient set from the project relationship snapshot and
// the current officer-role accounts; it never includes the actor that
// caused the event.
type Event interface {
	Drafts(facts ProjectFacts, officerIDs []int) []Draft
}

// DocumentSubmitted fires on document creation.
type DocumentSubmitted struct {
	ProjectID     int
	ProjectTitle  string
	DocumentTitle string
	Phase         models.Phase
	SubmitterID   int
	SubmitterName string
}

func (e DocumentSubmitted) Drafts(f ProjectFacts, _ []int) []Draft {
	if f.AdvisorID == nil || *f.AdvisorID == e.SubmitterID {
		return nil
	}
	role := models.RoleAdvisor
	return []Draft{{
		UserID: *f.AdvisorID,
		Title:  "New document submitted",
		Message: fmt.Sprintf("%s submitted \"%s\" (%s) on project \"%s\"",
			e.SubmitterName, e.DocumentTitle, e.Phase, e.ProjectTitle),
		Type:       models.NotifyDocumentSubmission,
		TargetRole: &role,
		ProjectID:  &e.ProjectID,
	}}
}

// DocumentReviewed fires on the pending -> approved/rejected transition.
// The submitter is told the outcome; every officer-role account gets a
// distinct record-keeping notification.
type DocumentReviewed struct {
	ProjectID     int
	ProjectTitle  string
	DocumentTitle string
	SubmitterID   int
	ReviewerID    int
	Decision      models.DocumentStatus
	Feedback      string
}

func (e DocumentReviewed) Drafts(_ ProjectFacts, officerIDs []int) []Draft {
	drafts := make([]Draft, 0, len(officerIDs)+1)

	if e.SubmitterID != e.ReviewerID {
		msg := fmt.Sprintf("Your document \"%s\" on project \"%s\" was %s",
			e.DocumentTitle, e.ProjectTitle, e.Decision)
		if e.Feedback != "" {
			msg += ": " + e.Feedback
		}
		drafts = append(drafts, Draft{
			UserID:    e.SubmitterID,
			Title:     "Document reviewed",
			Message:   msg,
			Type:      models.NotifyDocumentReview,
			ProjectID: &e.ProjectID,
		})
	}

	officerRole := models.RoleProjectOfficer
	for _, id := range officerIDs {
		if id == e.ReviewerID {
			continue
		}
		drafts = append(drafts, Draft{
			UserID: id,
			Title:  "Document reviewed",
			Message: fmt.Sprintf("Document \"%s\" on project \"%s\" was %s",
				e.DocumentTitle, e.ProjectTitle, e.Decision),
			Type:       models.NotifyDocumentReview,
			TargetRole: &officerRole,
			ProjectID:  &e.ProjectID,
		})
	}
	return drafts
}

// ChatMessagePosted fires on chat insert. A message from the project's
// advisor goes to every enrolled student; anyone else's message goes to
// the advisor, if one is assigned.
type ChatMessagePosted struct {
	ProjectID    int
	ProjectTitle string
	Phase        models.Phase
	AuthorID     int
	AuthorName   string
	Preview      string
}

func (e ChatMessagePosted) Drafts(f ProjectFacts, _ []int) []Draft {
	msg := fmt.Sprintf("%s posted in %s of project \"%s\": %s",
		e.AuthorName, e.Phase, e.ProjectTitle, e.Preview)

	if f.IsAdvisor(e.AuthorID) {
		drafts := make([]Draft, 0, len(f.StudentIDs))
		for _, id := range f.StudentIDs {
			if id == e.AuthorID {
				continue
			}
			drafts = append(drafts, Draft{
				UserID:    id,
				Title:     "New message from your advisor",
				Message:   msg,
				Type:      models.NotifyProjectUpdate,
				ProjectID: &e.ProjectID,
			})
		}
		return drafts
	}

	if f.AdvisorID == nil || *f.AdvisorID == e.AuthorID {
		return nil
	}
	role := models.RoleAdvisor
	return []Draft{{
		UserID:     *f.AdvisorID,
		Title:      "New project message",
		Message:    msg,
		Type:       models.NotifyProjectUpdate,
		TargetRole: &role,
		ProjectID:  &e.ProjectID,
	}}
}

// DeadlineSet fires when a phase deadline is created or moved.
type DeadlineSet struct {
	ProjectID    int
	ProjectTitle string
	Phase        models.Phase
	DueDate      time.Time
	ActorID      int
}

func (e DeadlineSet) Drafts(f ProjectFacts, _ []int) []Draft {
	drafts := make([]Draft, 0, len(f.StudentIDs))
	for _, id := range f.StudentIDs {
		if id == e.ActorID {
			continue
		}
		drafts = append(drafts, Draft{
			UserID: id,
			Title:  "Phase deadline updated",
			Message: fmt.Sprintf("%s of project \"%s\" is due %s",
				e.Phase, e.ProjectTitle, e.DueDate.Format("2006-01-02")),
			Type:      models.NotifyDeadlineReminder,
			ProjectID: &e.ProjectID,
		})
	}
	return drafts
}

// DeadlineApproaching is the cron-driven reminder for deadlines due soon.
type DeadlineApproaching struct {
	ProjectID    int
	ProjectTitle string
	Phase        models.Phase
	DueDate      time.Time
}

func (e DeadlineApproaching) Drafts(f ProjectFacts, _ []int) []Draft {
	drafts := make([]Draft, 0, len(f.StudentIDs))
	for _, id := range f.StudentIDs {
		drafts = append(drafts, Draft{
			UserID: id,
			Title:  "Deadline approaching",
			Message: fmt.Sprintf("%s of project \"%s\" is due %s",
				e.Phase, e.ProjectTitle, e.DueDate.Format("2006-01-02 15:04")),
			Type:      models.NotifyDeadlineReminder,
			ProjectID: &e.ProjectID,
		})
	}
	return drafts
}

// ProjectAssigned fires once when a project is created with its members
// and advisor. Students and the advisor learn their assignment; other
// officers get a creation broadcast.
type ProjectAssigned struct {
	ProjectID    int
	ProjectTitle string
	CreatorID    int
}

func (e ProjectAssigned) Drafts(f ProjectFacts, officerIDs []int) []Draft {
	drafts := make([]Draft, 0, len(f.StudentIDs)+len(officerIDs)+1)

	for _, id := range f.StudentIDs {
		drafts = append(drafts, Draft{
			UserID:    id,
			Title:     "Assigned to project",
			Message:   fmt.Sprintf("You were enrolled on project \"%s\"", e.ProjectTitle),
			Type:      models.NotifyProjectAssignment,
			ProjectID: &e.ProjectID,
		})
	}

	if f.AdvisorID != nil && *f.AdvisorID != e.CreatorID {
		role := models.RoleAdvisor
		drafts = append(drafts, Draft{
			UserID:     *f.AdvisorID,
			Title:      "Assigned as advisor",
			Message:    fmt.Sprintf("You were assigned as advisor of project \"%s\"", e.ProjectTitle),
			Type:       models.NotifyProjectAssignment,
			TargetRole: &role,
			ProjectID:  &e.ProjectID,
		})
	}

	officerRole := models.RoleProjectOfficer
	for _, id := range officerIDs {
		if id == e.CreatorID {
			continue
		}
		drafts = append(drafts, Draft{
			UserID:     id,
			Title:      "Project created",
			Message:    fmt.Sprintf("Project \"%s\" was created", e.ProjectTitle),
			Type:       models.NotifyProjectUpdate,
			TargetRole: &officerRole,
			ProjectID:  &e.ProjectID,
		})
	}
	return drafts
}

// Dispatcher turns events into notification rows. Inserts happen inside
// the caller's transaction so a failed fan-out rolls the triggering
// change back; websocket delivery happens only after commit, via Publish.
type Dispatcher struct {
	hub *Hub
}

func NewDispatcher(hub *Hub) *Dispatcher {
	return &Dispatcher{hub: hub}
}

func officerAccountIDs(tx *gorm.DB) ([]int, error) {
	var ids []int
	err := tx.Model(&models.User{}).
		Where("role = ? AND delete_at IS NULL", models.RoleProjectOfficer).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Dispatch computes the recipient set for the event and inserts one
// notification row per recipient. Recipients are deduplicated by user.
func (d *Dispatcher) Dispatch(tx *gorm.DB, event Event, facts ProjectFacts) ([]models.Notification, error) {
	officerIDs, err := officerAccountIDs(tx)
	if err != nil {
		return nil, err
	}

	drafts := lo.UniqBy(event.Drafts(facts, officerIDs), func(dr Draft) int {
		return dr.UserID
	})

	created := make([]models.Notification, 0, len(drafts))
	for _, dr := range drafts {
		n := models.Notification{
			UserID:           dr.UserID,
			Title:            dr.Title,
			Message:          dr.Message,
			Type:             dr.Type,
			TargetRole:       dr.TargetRole,
			RelatedProjectID: dr.ProjectID,
			CreateAt:         time.Now(),
		}
		if err := tx.Create(&n).Error; err != nil {
			return nil, err
		}
		created = append(created, n)
	}
	return created, nil
}

// BroadcastToRole inserts one notification per account holding the role
// at dispatch time and returns the created count.
func (d *Dispatcher) BroadcastToRole(tx *gorm.DB, role models.Role, title, message string, ntype models.NotificationType) ([]models.Notification, error) {
	var ids []int
	if err := tx.Model(&models.User{}).
		Where("role = ? AND delete_at IS NULL", role).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}

	created := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		n := models.Notification{
			UserID:     id,
			Title:      title,
			Message:    message,
			Type:       ntype,
			TargetRole: &role,
			CreateAt:   time.Now(),
		}
		if err := tx.Create(&n).Error; err != nil {
			return nil, err
		}
		created = append(created, n)
	}
	return created, nil
}

// Publish pushes committed notifications to connected recipients. Call
// after the surrounding transaction has committed.
func (d *Dispatcher) Publish(notifications []models.Notification) {
	if d.hub == nil {
		return
	}
	for _, n := range notifications {
		d.hub.Send(n.UserID, PushMessage{Kind: "notification", Data: n})
	}
}
