package services

import (
	"testing"

	"fyp-management-api/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

// One project with each relationship type: advisor 10, officer 20,
// students 1 and 2. 30 is an unrelated advisor, 40 an unrelated student,
// 50 an unrelated officer-role account.
func testFacts() ProjectFacts {
	return ProjectFacts{
		ProjectID:  7,
		AdvisorID:  intPtr(10),
		OfficerID:  intPtr(20),
		StudentIDs: []int{1, 2},
	}
}

func TestProjectAccess(t *testing.T) {
	facts := testFacts()

	tests := []struct {
		name string
		p    Principal
		want bool
	}{
		{"enrolled student", Principal{UserID: 1, Role: models.RoleStudent}, true},
		{"second enrolled student", Principal{UserID: 2, Role: models.RoleStudent}, true},
		{"assigned advisor", Principal{UserID: 10, Role: models.RoleAdvisor}, true},
		{"assigned officer", Principal{UserID: 20, Role: models.RoleProjectOfficer}, true},
		{"any officer role", Principal{UserID: 50, Role: models.RoleProjectOfficer}, true},
		{"unrelated advisor", Principal{UserID: 30, Role: models.RoleAdvisor}, false},
		{"unrelated student", Principal{UserID: 40, Role: models.RoleStudent}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectAccess(tt.p, facts))
		})
	}
}

func TestProjectAccessNoAdvisorAssigned(t *testing.T) {
	facts := testFacts()
	facts.AdvisorID = nil

	assert.False(t, ProjectAccess(Principal{UserID: 10, Role: models.RoleAdvisor}, facts))
	assert.True(t, ProjectAccess(Principal{UserID: 1, Role: models.RoleStudent}, facts))
}

func TestCanReviewDocument(t *testing.T) {
	facts := testFacts()

	assert.True(t, CanReviewDocument(Principal{UserID: 10, Role: models.RoleAdvisor}, facts))
	assert.True(t, CanReviewDocument(Principal{UserID: 50, Role: models.RoleProjectOfficer}, facts))

	// never granted by project membership alone
	assert.False(t, CanReviewDocument(Principal{UserID: 1, Role: models.RoleStudent}, facts))
	assert.False(t, CanReviewDocument(Principal{UserID: 2, Role: models.RoleStudent}, facts))
	assert.False(t, CanReviewDocument(Principal{UserID: 30, Role: models.RoleAdvisor}, facts))
}

func TestCanSubmitDocument(t *testing.T) {
	facts := testFacts()

	assert.True(t, CanSubmitDocument(Principal{UserID: 1, Role: models.RoleStudent}, facts))
	assert.False(t, CanSubmitDocument(Principal{UserID: 40, Role: models.RoleStudent}, facts))
	// advisor and officer are not submitters
	assert.False(t, CanSubmitDocument(Principal{UserID: 10, Role: models.RoleAdvisor}, facts))
	assert.False(t, CanSubmitDocument(Principal{UserID: 20, Role: models.RoleProjectOfficer}, facts))
}

func TestCanReadDocument(t *testing.T) {
	facts := testFacts()
	doc := models.Document{DocumentID: 3, ProjectID: 7, SubmittedBy: 1, Status: models.DocumentPending}

	assert.True(t, CanReadDocument(Principal{UserID: 1, Role: models.RoleStudent}, facts, doc))
	assert.True(t, CanReadDocument(Principal{UserID: 10, Role: models.RoleAdvisor}, facts, doc))
	assert.True(t, CanReadDocument(Principal{UserID: 50, Role: models.RoleProjectOfficer}, facts, doc))

	// fellow member is not the submitter
	assert.False(t, CanReadDocument(Principal{UserID: 2, Role: models.RoleStudent}, facts, doc))
	assert.False(t, CanReadDocument(Principal{UserID: 30, Role: models.RoleAdvisor}, facts, doc))
}

func TestCanEditPendingDocument(t *testing.T) {
	doc := models.Document{SubmittedBy: 1, Status: models.DocumentPending}

	assert.True(t, CanEditPendingDocument(Principal{UserID: 1, Role: models.RoleStudent}, doc))
	assert.False(t, CanEditPendingDocument(Principal{UserID: 2, Role: models.RoleStudent}, doc))

	doc.Status = models.DocumentApproved
	assert.False(t, CanEditPendingDocument(Principal{UserID: 1, Role: models.RoleStudent}, doc))
}

func TestCanManageDeadline(t *testing.T) {
	facts := testFacts()

	assert.True(t, CanManageDeadline(Principal{UserID: 10, Role: models.RoleAdvisor}, facts))
	assert.True(t, CanManageDeadline(Principal{UserID: 50, Role: models.RoleProjectOfficer}, facts))
	assert.False(t, CanManageDeadline(Principal{UserID: 1, Role: models.RoleStudent}, facts))
	assert.False(t, CanManageDeadline(Principal{UserID: 30, Role: models.RoleAdvisor}, facts))
}

func TestCanCommentIsProjectScoped(t *testing.T) {
	facts := testFacts()

	// a fellow member reads and writes the thread even for documents
	// submitted by someone else
	fellow := Principal{UserID: 2, Role: models.RoleStudent}
	doc := models.Document{DocumentID: 3, ProjectID: 7, SubmittedBy: 1}
	assert.False(t, CanReadDocument(fellow, facts, doc))
	assert.True(t, CanComment(fellow, facts))

	assert.True(t, CanComment(Principal{UserID: 1, Role: models.RoleStudent}, facts))
	assert.True(t, CanComment(Principal{UserID: 10, Role: models.RoleAdvisor}, facts))
	assert.True(t, CanComment(Principal{UserID: 50, Role: models.RoleProjectOfficer}, facts))

	assert.False(t, CanComment(Principal{UserID: 30, Role: models.RoleAdvisor}, facts))
	assert.False(t, CanComment(Principal{UserID: 40, Role: models.RoleStudent}, facts))
}

func TestOfficerOnlyGates(t *testing.T) {
	officer := Principal{UserID: 50, Role: models.RoleProjectOfficer}
	advisor := Principal{UserID: 10, Role: models.RoleAdvisor}
	student := Principal{UserID: 1, Role: models.RoleStudent}

	assert.True(t, CanManageMembers(officer))
	assert.False(t, CanManageMembers(advisor))
	assert.False(t, CanManageMembers(student))

	assert.True(t, CanManageResource(officer))
	assert.False(t, CanManageResource(advisor))
	assert.False(t, CanManageResource(student))
}

func TestParticipantIDs(t *testing.T) {
	facts := testFacts()
	assert.ElementsMatch(t, []int{1, 2, 10, 20}, facts.ParticipantIDs())

	// advisor doubling as assigned officer is not listed twice
	facts.OfficerID = intPtr(10)
	assert.ElementsMatch(t, []int{1, 2, 10}, facts.ParticipantIDs())
}
