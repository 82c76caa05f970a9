package services

import (
	"testing"
	"time"

	"fyp-management-api/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func recipientIDs(drafts []Draft) []int {
	return lo.Map(drafts, func(d Draft, _ int) int { return d.UserID })
}

func TestDocumentSubmittedNotifiesAdvisor(t *testing.T) {
	facts := testFacts()
	event := DocumentSubmitted{
		ProjectID:     7,
		ProjectTitle:  "P",
		DocumentTitle: "D",
		Phase:         models.Phase1,
		SubmitterID:   1,
		SubmitterName: "S One",
	}

	drafts := event.Drafts(facts, []int{20, 50})

	assert.Len(t, drafts, 1)
	assert.Equal(t, 10, drafts[0].UserID)
	assert.Equal(t, models.NotifyDocumentSubmission, drafts[0].Type)
}

func TestDocumentSubmittedNoAdvisor(t *testing.T) {
	facts := testFacts()
	facts.AdvisorID = nil

	drafts := DocumentSubmitted{SubmitterID: 1}.Drafts(facts, []int{20})
	assert.Empty(t, drafts)
}

func TestDocumentReviewedNotifiesSubmitterAndOfficers(t *testing.T) {
	// advisor A(10) approves S1(1)'s document; O(20) is the only officer
	event := DocumentReviewed{
		ProjectID:     7,
		ProjectTitle:  "P",
		DocumentTitle: "D",
		SubmitterID:   1,
		ReviewerID:    10,
		Decision:      models.DocumentApproved,
		Feedback:      "Looks good",
	}

	drafts := event.Drafts(testFacts(), []int{20})

	assert.ElementsMatch(t, []int{1, 20}, recipientIDs(drafts))
	for _, d := range drafts {
		assert.Equal(t, models.NotifyDocumentReview, d.Type)
	}
}

func TestDocumentReviewedByOfficerExcludesReviewer(t *testing.T) {
	event := DocumentReviewed{
		SubmitterID: 1,
		ReviewerID:  20,
		Decision:    models.DocumentRejected,
	}

	drafts := event.Drafts(testFacts(), []int{20, 50})

	// the acting officer never notifies itself
	assert.ElementsMatch(t, []int{1, 50}, recipientIDs(drafts))
}

func TestChatMessageByAdvisorNotifiesStudents(t *testing.T) {
	event := ChatMessagePosted{
		ProjectID: 7, ProjectTitle: "P", Phase: models.Phase2,
		AuthorID: 10, AuthorName: "A", Preview: "hello",
	}

	drafts := event.Drafts(testFacts(), nil)

	// exactly one per enrolled student, none to the advisor
	assert.ElementsMatch(t, []int{1, 2}, recipientIDs(drafts))
	for _, d := range drafts {
		assert.Equal(t, models.NotifyProjectUpdate, d.Type)
	}
}

func TestChatMessageByStudentNotifiesAdvisor(t *testing.T) {
	event := ChatMessagePosted{AuthorID: 1, AuthorName: "S"}

	drafts := event.Drafts(testFacts(), nil)
	assert.Equal(t, []int{10}, recipientIDs(drafts))
}

func TestChatMessageByStudentNoAdvisorAssigned(t *testing.T) {
	facts := testFacts()
	facts.AdvisorID = nil

	drafts := ChatMessagePosted{AuthorID: 1}.Drafts(facts, nil)
	assert.Empty(t, drafts)
}

func TestDeadlineSetNotifiesEnrolledStudentsOnly(t *testing.T) {
	// officer O(20) sets a deadline; S1 and S2 get one each, A and O none
	event := DeadlineSet{
		ProjectID: 7, ProjectTitle: "P", Phase: models.Phase2,
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ActorID: 20,
	}

	drafts := event.Drafts(testFacts(), []int{20})

	assert.ElementsMatch(t, []int{1, 2}, recipientIDs(drafts))
	for _, d := range drafts {
		assert.Equal(t, models.NotifyDeadlineReminder, d.Type)
	}
}

func TestDeadlineApproachingNotifiesAllStudents(t *testing.T) {
	event := DeadlineApproaching{
		ProjectID: 7, ProjectTitle: "P", Phase: models.Phase3,
		DueDate: time.Now().Add(24 * time.Hour),
	}

	drafts := event.Drafts(testFacts(), nil)
	assert.ElementsMatch(t, []int{1, 2}, recipientIDs(drafts))
}

func TestProjectAssignedFanOut(t *testing.T) {
	// officer 20 creates the project; officers 20 and 50 exist
	event := ProjectAssigned{ProjectID: 7, ProjectTitle: "P", CreatorID: 20}

	drafts := event.Drafts(testFacts(), []int{20, 50})

	assert.ElementsMatch(t, []int{1, 2, 10, 50}, recipientIDs(drafts))

	byUser := lo.KeyBy(drafts, func(d Draft) int { return d.UserID })
	assert.Equal(t, models.NotifyProjectAssignment, byUser[1].Type)
	assert.Equal(t, models.NotifyProjectAssignment, byUser[10].Type)
	assert.Equal(t, models.NotifyProjectUpdate, byUser[50].Type)
}

func TestProjectAssignedAdvisorIsCreator(t *testing.T) {
	facts := testFacts()
	event := ProjectAssigned{ProjectID: 7, ProjectTitle: "P", CreatorID: *facts.AdvisorID}

	drafts := event.Drafts(facts, nil)
	assert.ElementsMatch(t, []int{1, 2}, recipientIDs(drafts))
}
