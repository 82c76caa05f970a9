package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusTransitions(t *testing.T) {
	// pending moves to a terminal status, nothing else moves anywhere
	assert.True(t, DocumentPending.CanTransitionTo(DocumentApproved))
	assert.True(t, DocumentPending.CanTransitionTo(DocumentRejected))

	assert.False(t, DocumentPending.CanTransitionTo(DocumentPending))
	assert.False(t, DocumentApproved.CanTransitionTo(DocumentPending))
	assert.False(t, DocumentApproved.CanTransitionTo(DocumentRejected))
	assert.False(t, DocumentRejected.CanTransitionTo(DocumentApproved))
	assert.False(t, DocumentRejected.CanTransitionTo(DocumentPending))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleAdvisor.Valid())
	assert.True(t, RoleProjectOfficer.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())

	assert.True(t, Phase1.Valid())
	assert.True(t, Phase4.Valid())
	assert.False(t, Phase("phase5").Valid())

	assert.True(t, ProjectActive.Valid())
	assert.False(t, ProjectStatus("archived").Valid())

	assert.True(t, NotifyDeadlineReminder.Valid())
	assert.False(t, NotificationType("spam").Valid())
}
